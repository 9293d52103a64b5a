package models

import "encoding/json"

// ConflictType tags the resource a conflict was detected on.
type ConflictType string

const (
	ConflictTypeRoom        ConflictType = "room"
	ConflictTypeTeacher     ConflictType = "teacher"
	ConflictTypeSurveillant ConflictType = "surveillant"
)

// Conflict is implemented by RoomConflict, TeacherConflict and SurveillantConflict only.
type Conflict interface {
	Kind() ConflictType
	ConflictingExamID() int64
}

// ConflictBase holds the fields shared by every conflict kind.
type ConflictBase struct {
	ExamID   int64  `json:"exam_id"`
	ExamName string `json:"exam_name"`
	Time     string `json:"time"`
}

// ConflictingExamID returns the existing exam that collides with the candidate window.
func (b ConflictBase) ConflictingExamID() int64 { return b.ExamID }

// RoomConflict reports rooms booked by another overlapping exam.
type RoomConflict struct {
	ConflictBase
	Rooms []string `json:"rooms"`
}

// Kind implements Conflict.
func (RoomConflict) Kind() ConflictType { return ConflictTypeRoom }

// MarshalJSON adds the type tag.
func (c RoomConflict) MarshalJSON() ([]byte, error) {
	type alias RoomConflict
	return json.Marshal(struct {
		Type ConflictType `json:"type"`
		alias
	}{ConflictTypeRoom, alias(c)})
}

// TeacherConflict reports a responsible teacher already accountable for an overlapping exam.
type TeacherConflict struct {
	ConflictBase
	Teacher string `json:"teacher"`
}

// Kind implements Conflict.
func (TeacherConflict) Kind() ConflictType { return ConflictTypeTeacher }

// MarshalJSON adds the type tag.
func (c TeacherConflict) MarshalJSON() ([]byte, error) {
	type alias TeacherConflict
	return json.Marshal(struct {
		Type ConflictType `json:"type"`
		alias
	}{ConflictTypeTeacher, alias(c)})
}

// SurveillantConflict reports surveillants already invigilating an overlapping exam.
type SurveillantConflict struct {
	ConflictBase
	Surveillants []string `json:"surveillants"`
}

// Kind implements Conflict.
func (SurveillantConflict) Kind() ConflictType { return ConflictTypeSurveillant }

// MarshalJSON adds the type tag.
func (c SurveillantConflict) MarshalJSON() ([]byte, error) {
	type alias SurveillantConflict
	return json.Marshal(struct {
		Type ConflictType `json:"type"`
		alias
	}{ConflictTypeSurveillant, alias(c)})
}

// ConflictReport groups the results of the three checks for a candidate window.
type ConflictReport struct {
	Rooms        []RoomConflict        `json:"rooms"`
	Teachers     []TeacherConflict     `json:"teachers"`
	Surveillants []SurveillantConflict `json:"surveillants"`
}

// All flattens the report in room, teacher, surveillant order.
func (r ConflictReport) All() []Conflict {
	out := make([]Conflict, 0, r.Count())
	for _, c := range r.Rooms {
		out = append(out, c)
	}
	for _, c := range r.Teachers {
		out = append(out, c)
	}
	for _, c := range r.Surveillants {
		out = append(out, c)
	}
	return out
}

// Count returns the total number of conflicts.
func (r ConflictReport) Count() int {
	return len(r.Rooms) + len(r.Teachers) + len(r.Surveillants)
}

// Empty reports whether no conflict was found.
func (r ConflictReport) Empty() bool {
	return r.Count() == 0
}
