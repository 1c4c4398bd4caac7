// Package booking drives the patient's new-appointment flow: pick a date,
// then city, hospital, department and doctor, then book a free slot or join
// a waiting list when everything is taken.
package booking

// Stage is one step of the booking flow, in order.
type Stage int

const (
	StageDate Stage = iota
	StageCity
	StageHospital
	StageDepartment
	StageDoctor
	StageSlot

	stageCount
)

var stageNames = [...]string{"date", "city", "hospital", "department", "doctor", "slot"}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return "unknown"
	}
	return stageNames[s]
}

// Stages lists every stage in flow order.
func Stages() []Stage {
	out := make([]Stage, 0, stageCount)
	for s := StageDate; s < stageCount; s++ {
		out = append(out, s)
	}
	return out
}
