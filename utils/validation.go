package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// HandleValidationErrors turns a ReadJSON failure into a 400 carrying the
// first failing field's message and path, e.g. {"message": ..., "field": "title"}
// or "items.0.activity" for nested item fields.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		field := fieldPath(first.Namespace())
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"message": fmt.Sprintf("Field '%s' failed on the '%s' rule", field, first.Tag()),
			"field":   field,
		})
		return
	}

	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{"message": "Invalid request body"})
}

// fieldPath converts a validator namespace like
// "CreateItineraryInput.Items[0].Activity" into "items.0.activity".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the root struct name
	}
	for i, part := range parts {
		part = strings.ReplaceAll(part, "[", ".")
		part = strings.ReplaceAll(part, "]", "")
		parts[i] = lowerFirst(part)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
