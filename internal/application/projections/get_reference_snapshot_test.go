package projections

import (
	"context"
	"errors"
	"testing"

	traineeStore "courtside/internal/adapters/storage/trainee"
	classDomain "courtside/internal/domain/class"
	"courtside/internal/domain/importing"
	traineeDomain "courtside/internal/domain/trainee"
	trainerDomain "courtside/internal/domain/trainer"
)

// fakeTrainerList implements ReferenceSnapshotTrainerStore.
type fakeTrainerList struct {
	trainers []trainerDomain.Trainer
	err      error
}

// List implements ReferenceSnapshotTrainerStore.
func (f *fakeTrainerList) List(_ context.Context) ([]trainerDomain.Trainer, error) {
	return f.trainers, f.err
}

// fakeClassList implements ReferenceSnapshotClassStore.
type fakeClassList struct {
	classes []classDomain.Class
}

// List implements ReferenceSnapshotClassStore.
func (f *fakeClassList) List(_ context.Context) ([]classDomain.Class, error) {
	return f.classes, nil
}

// fakeTraineeList implements ReferenceSnapshotTraineeStore and RosterTraineeStore.
type fakeTraineeList struct {
	trainees []traineeDomain.Trainee
}

// List implements the trainee listing.
func (f *fakeTraineeList) List(_ context.Context, _ traineeStore.ListFilter) ([]traineeDomain.Trainee, error) {
	return f.trainees, nil
}

// Count implements the trainee count.
func (f *fakeTraineeList) Count(_ context.Context, _ traineeStore.ListFilter) (int, error) {
	return len(f.trainees), nil
}

// TestQueryReferenceSnapshot verifies every entity type lands under its
// registry key with its display name.
func TestQueryReferenceSnapshot(t *testing.T) {
	deps := ReferenceSnapshotDeps{
		TrainerStore: &fakeTrainerList{trainers: []trainerDomain.Trainer{
			{ID: "tr-1", Name: "أحمد"},
		}},
		ClassStore: &fakeClassList{classes: []classDomain.Class{
			{ID: "cls-1", Name: "الناشئين"},
			{ID: "cls-2", Name: "الكبار"},
		}},
		TraineeStore: &fakeTraineeList{trainees: []traineeDomain.Trainee{
			{ID: "t-1", NameAr: "سارة"},
		}},
	}

	snapshot, err := QueryReferenceSnapshot(context.Background(), deps)
	if err != nil {
		t.Fatalf("QueryReferenceSnapshot: %v", err)
	}

	if len(snapshot[importing.TableTrainers]) != 1 {
		t.Errorf("trainers = %v", snapshot[importing.TableTrainers])
	}
	if got := snapshot[importing.TableClasses]; len(got) != 2 || got[0].Display != "الناشئين" {
		t.Errorf("classes = %v", got)
	}
	if got := snapshot[importing.TableTrainees]; len(got) != 1 || got[0].Display != "سارة" {
		t.Errorf("trainees = %v", got)
	}
}

// TestQueryReferenceSnapshot_StoreError verifies errors propagate.
func TestQueryReferenceSnapshot_StoreError(t *testing.T) {
	deps := ReferenceSnapshotDeps{
		TrainerStore: &fakeTrainerList{err: errors.New("db closed")},
		ClassStore:   &fakeClassList{},
		TraineeStore: &fakeTraineeList{},
	}

	if _, err := QueryReferenceSnapshot(context.Background(), deps); err == nil {
		t.Error("want error, got nil")
	}
}

// TestQueryTraineeRoster verifies class names are denormalized onto rows.
func TestQueryTraineeRoster(t *testing.T) {
	deps := TraineeRosterDeps{
		TraineeStore: &fakeTraineeList{trainees: []traineeDomain.Trainee{
			{ID: "t-1", NameAr: "سارة", ClassID: "cls-1"},
			{ID: "t-2", NameAr: "أحمد"},
		}},
		ClassStore: &fakeClassList{classes: []classDomain.Class{
			{ID: "cls-1", Name: "الناشئين"},
		}},
	}

	roster, err := QueryTraineeRoster(context.Background(), TraineeRosterInput{}, deps)
	if err != nil {
		t.Fatalf("QueryTraineeRoster: %v", err)
	}

	if roster.Total != 2 || len(roster.Rows) != 2 {
		t.Fatalf("roster = %+v", roster)
	}
	if roster.Rows[0].ClassName != "الناشئين" {
		t.Errorf("row 0 class = %q", roster.Rows[0].ClassName)
	}
	if roster.Rows[1].ClassName != "" {
		t.Errorf("row 1 class = %q, want empty for unassigned", roster.Rows[1].ClassName)
	}
}
