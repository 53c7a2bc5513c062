package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
)

func TestValidateExampleIsFeasible(t *testing.T) {
	result := Validate(input.ExampleInputData)
	assert.True(t, result.Feasible)
	assert.Empty(t, result.Issues)
}

func TestValidateDanglingSubjectReference(t *testing.T) {
	in := input.ExampleInputData
	in.Classes = append([]input.Class{}, in.Classes...)
	in.Classes[0].RequiredSubjects = append(in.Classes[0].RequiredSubjects, "undefined-subject")

	result := Validate(in)
	assert.False(t, result.Feasible)
	assert.Contains(t, result.Issues[0], "undefined-subject")
}

// TestValidateNoTeacherCoverageIsNotBlocking covers spec.md's S3 scenario:
// a class requires a subject that exists in the catalog but that no
// teacher teaches. Validate must still report feasible=true; the gap is
// surfaced separately by NoTeacherCoverage.
func TestValidateNoTeacherCoverageIsNotBlocking(t *testing.T) {
	in := input.ExampleInputData
	in.Subjects = append(in.Subjects, input.Subject{ID: "art", Name: "Art", HoursPerWeek: 2})
	in.Classes = append([]input.Class{}, in.Classes...)
	in.Classes[0].RequiredSubjects = append(in.Classes[0].RequiredSubjects, "art")

	result := Validate(in)
	assert.True(t, result.Feasible)

	pairs := NoTeacherCoverage(in)
	assert.Contains(t, pairs, [2]string{in.Classes[0].ID, "art"})
}

func TestValidateRoomShortage(t *testing.T) {
	in := input.ExampleInputData
	in.Rooms = in.Rooms[:1]

	result := Validate(in)
	assert.False(t, result.Feasible)
}

func TestValidateMissingSchoolSettings(t *testing.T) {
	result := Validate(input.InputData{})
	assert.False(t, result.Feasible)
	assert.NotEmpty(t, result.Issues)
}
