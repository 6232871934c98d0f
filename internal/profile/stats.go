package profile

// Stats summarizes a profile for the dashboard.
type Stats struct {
	Coins          int
	CoinsEarned    int
	CoinsSpent     int
	TasksCompleted int
	TasksArchived  int
	TasksOpen      int
	Objects        int
	ObjectsByKind  map[string]int
}

// Summarize derives dashboard statistics. Archived tasks count toward
// TasksArchived and, when completed before archival, toward CoinsEarned.
func Summarize(p Profile) Stats {
	s := Stats{
		Coins:         p.Coins,
		Objects:       len(p.Objects),
		ObjectsByKind: make(map[string]int),
	}
	for _, t := range p.Tasks {
		switch {
		case t.Completed:
			s.TasksCompleted++
			s.CoinsEarned += t.Reward
		case t.Archived:
			s.TasksArchived++
		default:
			s.TasksOpen++
		}
	}
	for _, o := range p.Objects {
		s.CoinsSpent += o.Cost
		s.ObjectsByKind[o.Kind]++
	}
	return s
}
