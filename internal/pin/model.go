// Package pin provides the outreach visit domain model and data access.
package pin

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a pin does not exist in the store.
	ErrNotFound = errors.New("pin not found")
	// ErrInvalidPin wraps every validation failure from New.
	ErrInvalidPin = errors.New("invalid pin")
)

// ResidenceType is the kind of dwelling visited.
type ResidenceType string

const (
	House     ResidenceType = "house"
	Apartment ResidenceType = "apartment"
	Hotel     ResidenceType = "hotel"
	Duplex    ResidenceType = "duplex"
	Other     ResidenceType = "other"
)

// ResidenceTypes lists every residence type in display order.
var ResidenceTypes = []ResidenceType{House, Apartment, Hotel, Duplex, Other}

// IsValid checks if a residence type is recognized.
func (t ResidenceType) IsValid() bool {
	for _, v := range ResidenceTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the residence type.
func (t ResidenceType) Label() string {
	switch t {
	case House:
		return "House"
	case Apartment:
		return "Apartment"
	case Hotel:
		return "Hotel Housing"
	case Duplex:
		return "Duplex"
	default:
		return "Other"
	}
}

// LookupResidenceType matches a value or label, case-insensitively.
func LookupResidenceType(s string) (ResidenceType, bool) {
	for _, v := range ResidenceTypes {
		if matches(s, string(v), v.Label()) {
			return v, true
		}
	}
	return "", false
}

// ParseResidenceType is LookupResidenceType with unknown input mapped to Other.
func ParseResidenceType(s string) ResidenceType {
	if v, ok := LookupResidenceType(s); ok {
		return v
	}
	return Other
}

// UnmarshalText decodes with the same fallback as ParseResidenceType.
func (t *ResidenceType) UnmarshalText(b []byte) error {
	*t = ParseResidenceType(string(b))
	return nil
}

// AnswerStatus records whether anyone came to the door.
type AnswerStatus string

const (
	Answered AnswerStatus = "answered"
	NoAnswer AnswerStatus = "no_answer"
)

// AnswerStatuses lists every answer status.
var AnswerStatuses = []AnswerStatus{Answered, NoAnswer}

// IsValid checks if an answer status is recognized.
func (s AnswerStatus) IsValid() bool {
	return s == Answered || s == NoAnswer
}

// Label returns a human-readable label for the answer status.
func (s AnswerStatus) Label() string {
	if s == Answered {
		return "Answer"
	}
	return "No Answer"
}

// LookupAnswerStatus matches a value or label, case-insensitively.
func LookupAnswerStatus(s string) (AnswerStatus, bool) {
	switch {
	case matches(s, string(Answered), Answered.Label()):
		return Answered, true
	case matches(s, string(NoAnswer), NoAnswer.Label(), "no-answer", "noanswer"):
		return NoAnswer, true
	}
	return "", false
}

// ParseAnswerStatus is LookupAnswerStatus with unknown input mapped to NoAnswer.
func ParseAnswerStatus(s string) AnswerStatus {
	if v, ok := LookupAnswerStatus(s); ok {
		return v
	}
	return NoAnswer
}

// UnmarshalText decodes with the same fallback as ParseAnswerStatus.
func (s *AnswerStatus) UnmarshalText(b []byte) error {
	*s = ParseAnswerStatus(string(b))
	return nil
}

// ResponseType is the sentiment of an answered contact.
type ResponseType string

const (
	Positive ResponseType = "positive"
	Negative ResponseType = "negative"
)

// ResponseTypes lists every response type.
var ResponseTypes = []ResponseType{Positive, Negative}

// IsValid checks if a response type is recognized.
func (r ResponseType) IsValid() bool {
	return r == Positive || r == Negative
}

// Label returns a human-readable label for the response type.
func (r ResponseType) Label() string {
	if r == Negative {
		return "Negative Response"
	}
	return "Positive Response"
}

// LookupResponseType matches a value or label, case-insensitively.
func LookupResponseType(s string) (ResponseType, bool) {
	switch {
	case matches(s, string(Positive), Positive.Label()):
		return Positive, true
	case matches(s, string(Negative), Negative.Label()):
		return Negative, true
	}
	return "", false
}

// ParseResponseType is LookupResponseType with unknown input mapped to Positive.
func ParseResponseType(s string) ResponseType {
	if v, ok := LookupResponseType(s); ok {
		return v
	}
	return Positive
}

// UnmarshalText decodes with the same fallback as ParseResponseType.
func (r *ResponseType) UnmarshalText(b []byte) error {
	*r = ParseResponseType(string(b))
	return nil
}

func matches(s string, candidates ...string) bool {
	s = strings.TrimSpace(s)
	for _, c := range candidates {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}

// Pin is a single geotagged outreach visit.
type Pin struct {
	ID            uuid.UUID     `json:"id"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	ResidenceType ResidenceType `json:"residence_type"`
	AnswerStatus  AnswerStatus  `json:"answer_status"`
	ResponseType  ResponseType  `json:"response_type"`
	Timestamp     time.Time     `json:"timestamp"`
	Notes         string        `json:"notes,omitempty"`
	TeamID        string        `json:"team_id,omitempty"`
	CreatedBy     string        `json:"created_by,omitempty"`
}

// IsAnswered reports whether the door was answered.
func (p *Pin) IsAnswered() bool {
	return p.AnswerStatus == Answered
}

// Response returns the response type only when the pin was answered.
// ResponseType is always populated on unanswered pins, so read it through here.
func (p *Pin) Response() (ResponseType, bool) {
	if !p.IsAnswered() {
		return "", false
	}
	return p.ResponseType, true
}

// Input is the data a user submits when dropping a pin.
type Input struct {
	Latitude      float64       `validate:"min=-90,max=90"`
	Longitude     float64       `validate:"min=-180,max=180"`
	ResidenceType ResidenceType `validate:"required"`
	AnswerStatus  AnswerStatus  `validate:"required"`
	ResponseType  ResponseType
	Notes         string `validate:"max=2000"`
	TeamID        string
	CreatedBy     string
}

var validate = validator.New()

// New validates in and builds a pin stamped with now.
func New(in Input, now time.Time) (*Pin, error) {
	if math.IsNaN(in.Latitude) || math.IsInf(in.Latitude, 0) ||
		math.IsNaN(in.Longitude) || math.IsInf(in.Longitude, 0) {
		return nil, fmt.Errorf("%w: coordinates must be finite", ErrInvalidPin)
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPin, err)
	}
	if !in.ResidenceType.IsValid() {
		return nil, fmt.Errorf("%w: residence type %q", ErrInvalidPin, in.ResidenceType)
	}
	if !in.AnswerStatus.IsValid() {
		return nil, fmt.Errorf("%w: answer status %q", ErrInvalidPin, in.AnswerStatus)
	}

	response := in.ResponseType
	if response == "" {
		response = Positive
	}
	if !response.IsValid() {
		return nil, fmt.Errorf("%w: response type %q", ErrInvalidPin, in.ResponseType)
	}

	return &Pin{
		ID:            uuid.New(),
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		ResidenceType: in.ResidenceType,
		AnswerStatus:  in.AnswerStatus,
		ResponseType:  response,
		Timestamp:     now,
		Notes:         strings.TrimSpace(in.Notes),
		TeamID:        in.TeamID,
		CreatedBy:     in.CreatedBy,
	}, nil
}
