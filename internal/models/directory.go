package models

// Directory is an immutable snapshot of every resource the scheduling engine reasons about.
// Slice order is the iteration order used for conflict reporting, availability and auto-assignment.
type Directory struct {
	Rooms    []Room    `json:"rooms"`
	Teachers []Teacher `json:"teachers"`
	Modules  []Module  `json:"modules"`
	Groups   []Group   `json:"groups"`
	Exams    []Exam    `json:"exams"`
}

// Room looks up a room by id.
func (d *Directory) Room(id int64) (Room, bool) {
	if d == nil {
		return Room{}, false
	}
	for _, room := range d.Rooms {
		if room.ID == id {
			return room, true
		}
	}
	return Room{}, false
}

// Teacher looks up a teacher by id.
func (d *Directory) Teacher(id int64) (Teacher, bool) {
	if d == nil {
		return Teacher{}, false
	}
	for _, teacher := range d.Teachers {
		if teacher.ID == id {
			return teacher, true
		}
	}
	return Teacher{}, false
}

// Module looks up a module by id.
func (d *Directory) Module(id int64) (Module, bool) {
	if d == nil {
		return Module{}, false
	}
	for _, module := range d.Modules {
		if module.ID == id {
			return module, true
		}
	}
	return Module{}, false
}

// Group looks up a group by id.
func (d *Directory) Group(id int64) (Group, bool) {
	if d == nil {
		return Group{}, false
	}
	for _, group := range d.Groups {
		if group.ID == id {
			return group, true
		}
	}
	return Group{}, false
}

// Exam looks up an exam by id.
func (d *Directory) Exam(id int64) (Exam, bool) {
	if d == nil {
		return Exam{}, false
	}
	for _, exam := range d.Exams {
		if exam.ID == id {
			return exam, true
		}
	}
	return Exam{}, false
}

// WithExam returns a copy of the directory where the exam sharing exam.ID is replaced.
// Exams that are not yet part of the snapshot are appended. The receiver is left untouched.
func (d *Directory) WithExam(exam Exam) *Directory {
	out := &Directory{}
	if d != nil {
		out.Rooms = d.Rooms
		out.Teachers = d.Teachers
		out.Modules = d.Modules
		out.Groups = d.Groups
		out.Exams = make([]Exam, len(d.Exams), len(d.Exams)+1)
		copy(out.Exams, d.Exams)
	}
	for i := range out.Exams {
		if out.Exams[i].ID == exam.ID {
			out.Exams[i] = exam.Clone()
			return out
		}
	}
	out.Exams = append(out.Exams, exam.Clone())
	return out
}
