package service

import (
	"strings"

	apperrors "samaajseva/pkg/common/errors"
)

const listSeparator = ", "

// SplitList decodes a stored list column: entries are trimmed and empty ones
// dropped, so "" and " , " both decode to an empty, non-nil slice.
func SplitList(stored string) []string {
	out := []string{}
	for _, item := range strings.Split(stored, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// JoinList encodes items for storage. Entries holding a comma are rejected
// because they would not decode back to the same sequence.
func JoinList(field string, items []string) (string, error) {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, ",") {
			return "", apperrors.Validation(field + " entries must not contain commas.")
		}
		kept = append(kept, item)
	}
	return strings.Join(kept, listSeparator), nil
}
