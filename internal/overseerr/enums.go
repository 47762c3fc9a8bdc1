package overseerr

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Integer status codes are the server's wire contract. Unrecognized codes
// decode to the zero value instead of failing the enclosing payload.

// MediaStatus is the availability of a title on the media server.
type MediaStatus int

const (
	MediaStatusUnknown            MediaStatus = 1
	MediaStatusPending            MediaStatus = 2
	MediaStatusProcessing         MediaStatus = 3
	MediaStatusPartiallyAvailable MediaStatus = 4
	MediaStatusAvailable          MediaStatus = 5
)

var mediaStatusLabels = map[MediaStatus]string{
	MediaStatusUnknown:            "Unknown",
	MediaStatusPending:            "Pending",
	MediaStatusProcessing:         "Processing",
	MediaStatusPartiallyAvailable: "Partially Available",
	MediaStatusAvailable:          "Available",
}

func (s MediaStatus) String() string { return label(s, mediaStatusLabels) }

// Valid reports whether s is a recognized code.
func (s MediaStatus) Valid() bool {
	_, ok := mediaStatusLabels[s]
	return ok
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *MediaStatus) UnmarshalJSON(data []byte) error {
	*s = decodeCode(data, mediaStatusLabels)
	return nil
}

// RequestStatus is the approval state of a media request.
type RequestStatus int

const (
	RequestStatusPending  RequestStatus = 1
	RequestStatusApproved RequestStatus = 2
	RequestStatusDeclined RequestStatus = 3
)

var requestStatusLabels = map[RequestStatus]string{
	RequestStatusPending:  "Pending",
	RequestStatusApproved: "Approved",
	RequestStatusDeclined: "Declined",
}

func (s RequestStatus) String() string { return label(s, requestStatusLabels) }

// Valid reports whether s is a recognized code.
func (s RequestStatus) Valid() bool {
	_, ok := requestStatusLabels[s]
	return ok
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *RequestStatus) UnmarshalJSON(data []byte) error {
	*s = decodeCode(data, requestStatusLabels)
	return nil
}

// IssueType classifies a reported playback problem.
type IssueType int

const (
	IssueTypeVideo     IssueType = 1
	IssueTypeAudio     IssueType = 2
	IssueTypeSubtitles IssueType = 3
	IssueTypeOther     IssueType = 4
)

var issueTypeLabels = map[IssueType]string{
	IssueTypeVideo:     "Video",
	IssueTypeAudio:     "Audio",
	IssueTypeSubtitles: "Subtitles",
	IssueTypeOther:     "Other",
}

func (t IssueType) String() string { return label(t, issueTypeLabels) }

// Valid reports whether t is a recognized code.
func (t IssueType) Valid() bool {
	_, ok := issueTypeLabels[t]
	return ok
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *IssueType) UnmarshalJSON(data []byte) error {
	*t = decodeCode(data, issueTypeLabels)
	return nil
}

// IssueStatus is whether an issue is still open.
type IssueStatus int

const (
	IssueStatusOpen     IssueStatus = 1
	IssueStatusResolved IssueStatus = 2
)

var issueStatusLabels = map[IssueStatus]string{
	IssueStatusOpen:     "Open",
	IssueStatusResolved: "Resolved",
}

func (s IssueStatus) String() string { return label(s, issueStatusLabels) }

// Valid reports whether s is a recognized code.
func (s IssueStatus) Valid() bool {
	_, ok := issueStatusLabels[s]
	return ok
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *IssueStatus) UnmarshalJSON(data []byte) error {
	*s = decodeCode(data, issueStatusLabels)
	return nil
}

// MediaType distinguishes movie and TV requests.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// UnmarshalJSON implements json.Unmarshaler.
func (t *MediaType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = ""
		return nil
	}
	switch MediaType(raw) {
	case MediaTypeMovie, MediaTypeTV:
		*t = MediaType(raw)
	default:
		*t = ""
	}
	return nil
}

func decodeCode[E ~int](data []byte, known map[E]string) E {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return 0
	}
	if _, ok := known[E(code)]; !ok {
		return 0
	}
	return E(code)
}

func label[E ~int](v E, labels map[E]string) string {
	if s, ok := labels[v]; ok {
		return s
	}
	return fmt.Sprintf("Unrecognized(%d)", int(v))
}
