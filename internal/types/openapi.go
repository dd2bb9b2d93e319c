package types

import "strings"

const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeFile    = "file"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
)

// FormContentTypes lists the media types whose body is decoded into form fields.
var FormContentTypes = []string{ContentTypeForm, ContentTypeMultipart}

// BaseMediaType strips parameters (e.g. charset) and lower-cases the media type.
func BaseMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// IsJSONMediaType reports whether the media type is application/json or a
// structured syntax suffix variant like application/problem+json.
func IsJSONMediaType(mediaType string) bool {
	base := BaseMediaType(mediaType)
	if base == ContentTypeJSON {
		return true
	}
	maintype, subtype, found := strings.Cut(base, "/")
	return found && maintype == "application" && strings.HasSuffix(subtype, "+json")
}

// AllJSON reports whether every media type is a JSON variant.
// An empty list counts as JSON.
func AllJSON(mediaTypes []string) bool {
	for _, m := range mediaTypes {
		if !IsJSONMediaType(m) {
			return false
		}
	}
	return true
}

// IsFormMediaType reports whether the media type carries form fields.
func IsFormMediaType(mediaType string) bool {
	return SliceContains(FormContentTypes, BaseMediaType(mediaType))
}
