package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "samaajseva/pkg/common/errors"
	needmodel "samaajseva/pkg/core/need/model"
)

// 请求/响应数据结构
type (
	RegisterReq struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	LoginReq struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	ProfileUpdateReq struct {
		Bio       string   `json:"bio"`
		City      string   `json:"city"`
		Skills    []string `json:"skills"`
		Interests []string `json:"interests"`
	}
)

type (
	// PostNeedReq mirrors the NGO request form. Category is accepted as an
	// alias of Domain. The form posts PeopleAffected as a string, blank when
	// left empty; see ParseCount.
	PostNeedReq struct {
		Title          string          `json:"title"`
		Domain         string          `json:"domain"`
		Category       string          `json:"category"`
		State          string          `json:"state"`
		District       string          `json:"district"`
		LocalArea      string          `json:"localArea"`
		PeopleAffected json.RawMessage `json:"peopleAffected"`
		ResourceType   string          `json:"resourceType"`
		UrgencyReason  string          `json:"urgencyReason"`
		Timeline       string          `json:"timeline"`
		Description    string          `json:"description"`
	}

	CommitReq struct {
		Quantity int `json:"quantity"`
	}

	NeedRes struct {
		ID                string    `json:"id"`
		NGOID             uint64    `json:"ngoId"`
		Title             string    `json:"title"`
		Domain            string    `json:"domain"`
		Category          string    `json:"category"`
		State             string    `json:"state"`
		District          string    `json:"district"`
		LocalArea         string    `json:"localArea"`
		PeopleAffected    int       `json:"peopleAffected"`
		ResourceType      string    `json:"resourceType"`
		UrgencyReason     string    `json:"urgencyReason"`
		Timeline          string    `json:"timeline"`
		Description       string    `json:"description"`
		Status            string    `json:"status"`
		QuantityCommitted int       `json:"quantityCommitted"`
		Priority          string    `json:"priority"`
		CreatedAt         time.Time `json:"createdAt"`
	}
)

// ParseCount reads a whole number sent either as a JSON number or as a
// string. Absent, null and "" mean zero.
func ParseCount(field string, raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, apperrors.Validation(field + " must be a whole number.")
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, apperrors.Validation(field + " must be a whole number.")
	}
	if n < 0 {
		return 0, apperrors.Validation(field + " must not be negative.")
	}
	return n, nil
}

// NewNeedRes computes priority at response time; it is never stored.
func NewNeedRes(n needmodel.Need) NeedRes {
	return NeedRes{
		ID:                n.ID,
		NGOID:             n.NGOID,
		Title:             n.Title,
		Domain:            n.Domain,
		Category:          n.Domain,
		State:             n.State,
		District:          n.District,
		LocalArea:         n.LocalArea,
		PeopleAffected:    n.PeopleAffected,
		ResourceType:      n.ResourceType,
		UrgencyReason:     n.UrgencyReason,
		Timeline:          n.Timeline,
		Description:       n.Description,
		Status:            string(n.Status),
		QuantityCommitted: n.QuantityCommitted,
		Priority:          string(n.Priority()),
		CreatedAt:         n.CreatedAt,
	}
}

func NewNeedResList(needs []needmodel.Need) []NeedRes {
	out := make([]NeedRes, 0, len(needs))
	for _, n := range needs {
		out = append(out, NewNeedRes(n))
	}
	return out
}
