package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTags(tags map[string]*string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = deref(v)
	}
	return out
}

// resourceGroupFromID returns the resource group segment of an ARM id, or
// "" when the id cannot be parsed.
func resourceGroupFromID(id string) string {
	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return ""
	}
	return rid.ResourceGroupName
}

func IsValidResourceGroupName(name string) bool {
	// Resource group name must be 1-90 characters long and can only contain alphanumeric characters,
	// underscores, parentheses, hyphens, and periods (except at end)
	if len(name) < 1 || len(name) > 90 {
		return false
	}
	for i, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') || char == '_' || char == '(' ||
			char == ')' || char == '-' || (char == '.' && i != len(name)-1)) {
			return false
		}
	}
	return true
}
