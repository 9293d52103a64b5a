package scheduling

import "github.com/noah-isme/exam-scheduler-api/internal/models"

// Placeholder is rendered wherever a referenced id cannot be resolved.
const Placeholder = "-"

// ConflictQuery describes a candidate exam window and the resources it would occupy.
// ExcludeExamID is the exam being edited; zero means none.
type ConflictQuery struct {
	Slot           Slot
	RoomIDs        []int64
	ModuleID       int64
	SurveillantIDs []int64
	ExcludeExamID  int64
}

// DetectAll runs the room, teacher and surveillant checks for a candidate window.
// Group double-booking is not checked.
func DetectAll(dir *models.Directory, query ConflictQuery) models.ConflictReport {
	return models.ConflictReport{
		Rooms:        CheckRoomConflicts(dir, query.Slot, query.RoomIDs, query.ExcludeExamID),
		Teachers:     CheckTeacherConflicts(dir, query.Slot, query.ModuleID, query.ExcludeExamID),
		Surveillants: CheckSurveillantConflicts(dir, query.Slot, query.SurveillantIDs, query.ExcludeExamID),
	}
}

// CheckRoomConflicts reports every overlapping exam that books at least one of roomIDs.
func CheckRoomConflicts(dir *models.Directory, slot Slot, roomIDs []int64, excludeExamID int64) []models.RoomConflict {
	conflicts := []models.RoomConflict{}
	if dir == nil || len(roomIDs) == 0 {
		return conflicts
	}
	wanted := idSet(roomIDs)
	for _, exam := range overlapping(dir, slot, excludeExamID) {
		shared := intersect(exam.RoomIDs, wanted)
		if len(shared) == 0 {
			continue
		}
		names := make([]string, 0, len(shared))
		for _, id := range shared {
			names = append(names, roomName(dir, id))
		}
		conflicts = append(conflicts, models.RoomConflict{
			ConflictBase: describe(dir, exam),
			Rooms:        names,
		})
	}
	return conflicts
}

// CheckTeacherConflicts reports overlapping exams whose module has the same responsible teacher
// as moduleID. An unknown module yields no conflicts; exams whose module is unknown are skipped.
func CheckTeacherConflicts(dir *models.Directory, slot Slot, moduleID int64, excludeExamID int64) []models.TeacherConflict {
	conflicts := []models.TeacherConflict{}
	module, ok := dir.Module(moduleID)
	if !ok {
		return conflicts
	}
	for _, exam := range overlapping(dir, slot, excludeExamID) {
		other, ok := dir.Module(exam.ModuleID)
		if !ok || other.TeacherID != module.TeacherID {
			continue
		}
		conflicts = append(conflicts, models.TeacherConflict{
			ConflictBase: describe(dir, exam),
			Teacher:      teacherName(dir, module.TeacherID),
		})
	}
	return conflicts
}

// CheckSurveillantConflicts reports overlapping exams already invigilated by any of surveillantIDs.
func CheckSurveillantConflicts(dir *models.Directory, slot Slot, surveillantIDs []int64, excludeExamID int64) []models.SurveillantConflict {
	conflicts := []models.SurveillantConflict{}
	if dir == nil || len(surveillantIDs) == 0 {
		return conflicts
	}
	wanted := idSet(surveillantIDs)
	for _, exam := range overlapping(dir, slot, excludeExamID) {
		shared := intersect(exam.SurveillantIDs, wanted)
		if len(shared) == 0 {
			continue
		}
		names := make([]string, 0, len(shared))
		for _, id := range shared {
			names = append(names, teacherName(dir, id))
		}
		conflicts = append(conflicts, models.SurveillantConflict{
			ConflictBase: describe(dir, exam),
			Surveillants: names,
		})
	}
	return conflicts
}

// overlapping yields the snapshot's exams intersecting slot, in snapshot order.
func overlapping(dir *models.Directory, slot Slot, excludeExamID int64) []models.Exam {
	if dir == nil {
		return nil
	}
	var out []models.Exam
	for _, exam := range dir.Exams {
		if excludeExamID != 0 && exam.ID == excludeExamID {
			continue
		}
		if Overlaps(slot, SlotOf(exam)) {
			out = append(out, exam)
		}
	}
	return out
}

func describe(dir *models.Directory, exam models.Exam) models.ConflictBase {
	name := Placeholder
	if module, ok := dir.Module(exam.ModuleID); ok {
		name = module.Name
	}
	return models.ConflictBase{
		ExamID:   exam.ID,
		ExamName: name,
		Time:     SlotOf(exam).Label(),
	}
}

func roomName(dir *models.Directory, id int64) string {
	if room, ok := dir.Room(id); ok {
		return room.Name
	}
	return Placeholder
}

func teacherName(dir *models.Directory, id int64) string {
	if teacher, ok := dir.Teacher(id); ok {
		return teacher.Name
	}
	return Placeholder
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// intersect keeps the order of ids and drops duplicates.
func intersect(ids []int64, wanted map[int64]struct{}) []int64 {
	var out []int64
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := wanted[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
