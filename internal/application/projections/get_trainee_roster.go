package projections

import (
	"context"

	traineeStore "courtside/internal/adapters/storage/trainee"
	classDomain "courtside/internal/domain/class"
	traineeDomain "courtside/internal/domain/trainee"
)

// RosterTraineeStore defines the trainee store interface for the roster.
type RosterTraineeStore interface {
	List(ctx context.Context, filter traineeStore.ListFilter) ([]traineeDomain.Trainee, error)
	Count(ctx context.Context, filter traineeStore.ListFilter) (int, error)
}

// RosterClassStore defines the class store interface for the roster.
type RosterClassStore interface {
	List(ctx context.Context) ([]classDomain.Class, error)
}

// TraineeRosterDeps holds dependencies for the roster projection.
type TraineeRosterDeps struct {
	TraineeStore RosterTraineeStore
	ClassStore   RosterClassStore
}

// TraineeRosterInput holds filtering parameters for the roster.
type TraineeRosterInput struct {
	ClassID string
	Status  string
	Search  string
	Limit   int
	Offset  int
}

// RosterRow is one trainee with their class name denormalized for display.
type RosterRow struct {
	Trainee   traineeDomain.Trainee
	ClassName string
}

// TraineeRoster is the roster page.
type TraineeRoster struct {
	Rows  []RosterRow
	Total int
}

// QueryTraineeRoster lists trainees with class names resolved.
// PRE: input has valid parameters
// POST: Returns matching trainees with Total counting all matches, not just
// the returned page
func QueryTraineeRoster(ctx context.Context, input TraineeRosterInput, deps TraineeRosterDeps) (TraineeRoster, error) {
	filter := traineeStore.ListFilter{
		ClassID: input.ClassID,
		Status:  input.Status,
		Search:  input.Search,
		Limit:   input.Limit,
		Offset:  input.Offset,
	}

	trainees, err := deps.TraineeStore.List(ctx, filter)
	if err != nil {
		return TraineeRoster{}, err
	}
	total, err := deps.TraineeStore.Count(ctx, filter)
	if err != nil {
		return TraineeRoster{}, err
	}

	classes, err := deps.ClassStore.List(ctx)
	if err != nil {
		return TraineeRoster{}, err
	}
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	roster := TraineeRoster{Total: total}
	for _, t := range trainees {
		roster.Rows = append(roster.Rows, RosterRow{
			Trainee:   t,
			ClassName: classNames[t.ClassID],
		})
	}
	return roster, nil
}
