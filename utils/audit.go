package utils

import (
	"encoding/json"
	"net"

	"trip-planner-server/models"
	"trip-planner-server/storage"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// Audit records a user action against a resource. Best effort: a failed
// write never fails the request.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, payload interface{}) {
	if storage.DB == nil {
		return
	}

	var payloadStr string
	if payload != nil {
		if p, err := json.Marshal(payload); err == nil {
			payloadStr = string(p)
		}
	}

	var userID uint
	if tok := jsonWT.Get(ctx); tok != nil {
		if at, ok := tok.(*AccessToken); ok {
			userID = at.ID
		}
	}

	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		PayloadJSON:  payloadStr,
		IPAddress:    clientIP(ctx),
	}
	storage.DB.Create(&entry)
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
