package projections

import (
	"context"

	traineeStore "courtside/internal/adapters/storage/trainee"
	classDomain "courtside/internal/domain/class"
	"courtside/internal/domain/importing"
	traineeDomain "courtside/internal/domain/trainee"
	trainerDomain "courtside/internal/domain/trainer"
)

// ReferenceSnapshotTrainerStore defines the trainer store interface for the snapshot.
type ReferenceSnapshotTrainerStore interface {
	List(ctx context.Context) ([]trainerDomain.Trainer, error)
}

// ReferenceSnapshotClassStore defines the class store interface for the snapshot.
type ReferenceSnapshotClassStore interface {
	List(ctx context.Context) ([]classDomain.Class, error)
}

// ReferenceSnapshotTraineeStore defines the trainee store interface for the snapshot.
type ReferenceSnapshotTraineeStore interface {
	List(ctx context.Context, filter traineeStore.ListFilter) ([]traineeDomain.Trainee, error)
}

// ReferenceSnapshotDeps holds dependencies for the snapshot projection.
type ReferenceSnapshotDeps struct {
	TrainerStore ReferenceSnapshotTrainerStore
	ClassStore   ReferenceSnapshotClassStore
	TraineeStore ReferenceSnapshotTraineeStore
}

// QueryReferenceSnapshot loads every referenceable entity's id and display
// name once, at wizard start. The wizard matches sheet cells against this
// fixed snapshot; entities created mid-session are deliberately not seen.
// PRE: none
// POST: snapshot is keyed by registry table key; entries carry display names
func QueryReferenceSnapshot(ctx context.Context, deps ReferenceSnapshotDeps) (importing.ReferenceSnapshot, error) {
	snapshot := importing.ReferenceSnapshot{}

	trainers, err := deps.TrainerStore.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range trainers {
		snapshot[importing.TableTrainers] = append(snapshot[importing.TableTrainers],
			importing.ReferenceEntity{ID: t.ID, Display: t.Name})
	}

	classes, err := deps.ClassStore.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		snapshot[importing.TableClasses] = append(snapshot[importing.TableClasses],
			importing.ReferenceEntity{ID: c.ID, Display: c.Name})
	}

	trainees, err := deps.TraineeStore.List(ctx, traineeStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	for _, t := range trainees {
		snapshot[importing.TableTrainees] = append(snapshot[importing.TableTrainees],
			importing.ReferenceEntity{ID: t.ID, Display: t.NameAr})
	}

	return snapshot, nil
}
