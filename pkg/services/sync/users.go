package sync

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/sparrow-vision/access-atlas/pkg/services/provider"
)

// User statuses normalized across IGA platforms.
const (
	StatusActive        = "ACTIVE"
	StatusSuspended     = "SUSPENDED"
	StatusProvisioned   = "PROVISIONED"
	StatusStaged        = "STAGED"
	StatusDeprovisioned = "DEPROVISIONED"
	StatusExit          = "EXIT"
	StatusUnknown       = "UNKNOWN"
)

// User is a normalized roster entry.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	DisplayName  string   `json:"displayName"`
	Status       string   `json:"status"`
	Department   string   `json:"department"`
	JobTitle     string   `json:"jobTitle"`
	ManagerEmail string   `json:"managerEmail"`
	EmployeeID   string   `json:"employeeId"`
	CreatedDate  string   `json:"createdDate"`
	LastLogin    string   `json:"lastLogin"`
	Groups       []string `json:"groups"`
	RiskScore    int      `json:"riskScore"`
}

// apiUser is the wire shape: platforms disagree on key casing, so
// every known alias is declared and the first non-empty one wins.
type apiUser struct {
	IDUnderscore string          `json:"_id"`
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	Login        string          `json:"login"`
	FirstName    string          `json:"firstname"`
	FirstNameAlt string          `json:"firstName"`
	LastName     string          `json:"lastname"`
	LastNameAlt  string          `json:"lastName"`
	DisplayName  string          `json:"displayname"`
	DisplayAlt   string          `json:"displayName"`
	Activated    *bool           `json:"activated"`
	Suspended    *bool           `json:"suspended"`
	Status       string          `json:"status"`
	Department   string          `json:"department"`
	JobTitle     string          `json:"jobTitle"`
	ManagerEmail string          `json:"managerEmail"`
	EmployeeID   string          `json:"employeeIdentifier"`
	Created      string          `json:"created"`
	LastLogin    string          `json:"lastLogin"`
	Groups       json.RawMessage `json:"groups"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseUser(raw apiUser, now time.Time) User {
	first := firstNonEmpty(raw.FirstName, raw.FirstNameAlt)
	last := firstNonEmpty(raw.LastName, raw.LastNameAlt)
	display := firstNonEmpty(raw.DisplayName, raw.DisplayAlt, strings.TrimSpace(first+" "+last))

	user := User{
		ID:           firstNonEmpty(raw.IDUnderscore, raw.ID),
		Email:        raw.Email,
		Username:     firstNonEmpty(raw.Username, raw.Login, raw.Email),
		DisplayName:  display,
		Status:       normalizeStatus(raw),
		Department:   raw.Department,
		JobTitle:     raw.JobTitle,
		ManagerEmail: raw.ManagerEmail,
		EmployeeID:   raw.EmployeeID,
		CreatedDate:  raw.Created,
		LastLogin:    raw.LastLogin,
		Groups:       parseGroups(raw.Groups),
	}
	user.RiskScore = riskScore(user, now)
	return user
}

func normalizeStatus(raw apiUser) string {
	if raw.Activated != nil {
		if *raw.Activated {
			return StatusActive
		}
		return StatusSuspended
	}
	if raw.Suspended != nil {
		if *raw.Suspended {
			return StatusSuspended
		}
		return StatusActive
	}
	if raw.Status != "" {
		return strings.ToUpper(raw.Status)
	}
	return StatusUnknown
}

// parseGroups accepts both plain strings and {name: ...} objects.
func parseGroups(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names
	}

	var objs []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objs); err == nil {
		names = make([]string, 0, len(objs))
		for _, g := range objs {
			names = append(names, g.Name)
		}
		return names
	}
	return nil
}

var adminGroupKeywords = []string{"admin", "administrator", "root", "superuser", "privileged"}

// riskScore grades a user 0-100 from status, login staleness and
// administrative group membership.
func riskScore(u User, now time.Time) int {
	score := 0

	switch u.Status {
	case StatusSuspended:
		score += 20
	case StatusDeprovisioned:
		score += 50
	}

	if u.LastLogin == "" {
		score += 25
	} else if login, err := time.Parse(time.RFC3339, u.LastLogin); err != nil {
		score += 10
	} else {
		days := int(now.Sub(login).Hours() / 24)
		switch {
		case days > 90:
			score += 30
		case days > 30:
			score += 15
		case days > 7:
			score += 5
		}
	}

	for _, g := range u.Groups {
		lower := strings.ToLower(g)
		for _, kw := range adminGroupKeywords {
			if strings.Contains(lower, kw) {
				score += 10
				break
			}
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Record maps the user onto the engine's field vocabulary.
func (u User) Record() domain.Record {
	rec := domain.Record{
		"email":       u.Email,
		"username":    u.Username,
		"displayName": u.DisplayName,
		"status":      u.Status,
		"riskScore":   float64(u.RiskScore),
	}
	if u.Department != "" {
		rec["department"] = u.Department
	}
	if u.JobTitle != "" {
		rec["jobTitle"] = u.JobTitle
	}
	if u.ManagerEmail != "" {
		rec["managerEmail"] = u.ManagerEmail
	}
	if u.EmployeeID != "" {
		rec["employeeId"] = u.EmployeeID
	}
	if u.LastLogin != "" {
		rec["lastLogin"] = u.LastLogin
	}
	if u.CreatedDate != "" {
		rec["createdDate"] = u.CreatedDate
	}
	if len(u.Groups) > 0 {
		rec["groups"] = u.Groups
	}
	return rec
}

// UserSource adapts the sync client to the provider interface as the
// user_access record source.
type UserSource struct {
	client *Client
}

func NewUserSource(client *Client) *UserSource {
	return &UserSource{client: client}
}

func (s *UserSource) Kind() provider.Kind { return provider.KindUserAccess }

func (s *UserSource) GetRecords(ctx context.Context) ([]domain.Record, error) {
	users, _, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(users))
	for _, u := range users {
		records = append(records, u.Record())
	}
	return records, nil
}
