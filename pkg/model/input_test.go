package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJson = `{
	"classes": [
		{"id": "10G", "divisions": "A+B;G+R", "homeRoom": "H10"},
		{"id": "11K", "divisions": ""}
	],
	"teachers": ["T1", "T2"],
	"rooms": ["R1", "R2", "H10"],
	"lessonGroups": [
		{"id": "LG1", "lessons": [{"length": 1}, {"length": 2, "time": {"day": 1, "period": 3}}]},
		{"id": "LG2", "blockSubject": "Sport", "blockTag": "S", "lessons": [{"length": 1}]}
	],
	"courses": [
		{"id": "C1", "lessonGroup": "LG1", "class": "10G", "group": "A", "subject": "Ma", "teacher": "T1", "room": "$"},
		{"id": "C2", "lessonGroup": "LG1", "class": "11K", "group": "*", "subject": "Ma", "teacher": "T2", "room": "R1/R2"},
		{"id": "C3", "lessonGroup": "LG2", "workload": "W1", "class": "10G", "group": "B", "teacher": "T2", "room": "R1+"}
	]
}`

func TestInputFromJson(t *testing.T) {
	//** Arrange
	file := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(file, []byte(snapshotJson), 0666))

	//** Act
	snapshot, err := InputFromJson(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []Class{
		{Id: "10G", Divisions: "A+B;G+R", HomeRoom: "H10"},
		{Id: "11K", Divisions: ""},
	}, snapshot.Classes)
	assert.Equal(t, []string{"T1", "T2"}, snapshot.Teachers)
	assert.Equal(t, []string{"R1", "R2", "H10"}, snapshot.Rooms)

	require.Len(t, snapshot.LessonGroups, 2)
	lessons := snapshot.LessonGroups[0].Lessons
	require.Len(t, lessons, 2)
	assert.Nil(t, lessons[0].Time)
	require.NotNil(t, lessons[1].Time)
	assert.Equal(t, Slot{Day: 1, Period: 3}, *lessons[1].Time)
	assert.Equal(t, "Sport", snapshot.LessonGroups[1].BlockSubject)

	require.Len(t, snapshot.Courses, 3)
	assert.Equal(t, CourseEntry{
		Id: "C3", LessonGroup: "LG2", Workload: "W1", Class: "10G", Group: "B", Teacher: "T2", Room: "R1+",
	}, snapshot.Courses[2])

	model, err := NewAssembler().Assemble(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Empty(t, model.Errors)
	assert.Equal(t, 3, model.Activities.Len())
	assert.Equal(t, []string{"H10"}, model.Activities.At(0).Rooms.Fixed)
	assert.Equal(t, [][]string{{"R1", "R2"}}, model.Activities.At(0).Rooms.Choices)
}

func TestInputFromJsonErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := InputFromJson(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	malformed := filepath.Join(dir, "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"classes": [`), 0666))
	_, err = InputFromJson(malformed)
	assert.Error(t, err)

	mistyped := filepath.Join(dir, "mistyped.json")
	require.NoError(t, os.WriteFile(mistyped, []byte(`{"teachers": "T1"}`), 0666))
	_, err = InputFromJson(mistyped)
	assert.Error(t, err)
}
