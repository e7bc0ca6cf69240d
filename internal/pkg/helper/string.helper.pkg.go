package helper

import (
	"fmt"
	"strings"
)

// GetMapStringValue reads key from a decoded JSON object as a string. Missing keys
// yield "", numbers are formatted as-is.
func GetMapStringValue(header map[string]interface{}, key string) *string {
	str := ""
	value, exists := header[key]
	if !exists || value == nil {
		return &str
	}
	str = fmt.Sprintf("%v", value)
	return &str
}

func ParseCommaSeperatedString(data string) []string {
	var stringsList []string
	if data == "" {
		return stringsList
	}

	parts := strings.Split(data, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		stringsList = append(stringsList, part)
	}

	return stringsList
}
