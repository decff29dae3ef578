package engine

// TickStats is one per-tick snapshot of the aggregate time series:
// clean %, explored %, battery, and the cumulative action counters.
// Rows are append-only.
type TickStats struct {
	Tick            uint64  `json:"tick" db:"tick"`
	CleanPercent    float64 `json:"clean_percent" db:"clean_percent"`
	ExploredPercent float64 `json:"explored_percent" db:"explored_percent"`
	AvgBattery      float64 `json:"avg_battery" db:"avg_battery"`
	Movements       int     `json:"movements" db:"movements"`
	Cleans          int     `json:"cleans" db:"cleans"`
	Charges         int     `json:"charges" db:"charges"`
	Stranded        int     `json:"stranded" db:"stranded"`
}

func (s *Simulation) collectStats(tick uint64) TickStats {
	st := TickStats{
		Tick:         tick,
		CleanPercent: s.Grid.CleanPercent(),
	}

	explored := 0.0
	battery := 0.0
	for _, a := range s.Agents {
		explored += a.Knowledge.ExplorationRatio()
		battery += float64(a.Battery)
		st.Movements += a.Movements
		st.Cleans += a.Cleans
		st.Charges += a.Charges
		if a.Stranded {
			st.Stranded++
		}
	}
	n := float64(len(s.Agents))
	st.ExploredPercent = explored / n * 100
	st.AvgBattery = battery / n

	return st
}

// Summary condenses the run for the reporting collaborator.
type Summary struct {
	Outcome         string  `json:"outcome"`
	Ticks           uint64  `json:"ticks"`
	CleanPercent    float64 `json:"clean_percent"`
	ExploredPercent float64 `json:"explored_percent"`
	InitialDirty    int     `json:"initial_dirty"`
	Cleaned         int     `json:"cleaned"`
	Movements       int     `json:"movements"`
	Charges         int     `json:"charges"`
	Stranded        int     `json:"stranded"`

	// Cells cleaned per hundred moves, and per hundred battery
	// points spent.
	CleaningEfficiency float64 `json:"cleaning_efficiency"`
	BatteryEfficiency  float64 `json:"battery_efficiency"`
}

// Summarize builds the end-of-run summary from the last series entry.
func (s *Simulation) Summarize() Summary {
	sum := Summary{
		Outcome:      OutcomeName(s.Outcome),
		Ticks:        s.Tick,
		InitialDirty: s.Grid.InitialDirty(),
		Cleaned:      s.Grid.CleanedCount(),
	}
	if len(s.Series) == 0 {
		return sum
	}

	last := s.Series[len(s.Series)-1]
	sum.CleanPercent = last.CleanPercent
	sum.ExploredPercent = last.ExploredPercent
	sum.Movements = last.Movements
	sum.Charges = last.Charges
	sum.Stranded = last.Stranded

	if last.Movements > 0 {
		sum.CleaningEfficiency = float64(last.Cleans) / float64(last.Movements) * 100
	}
	spent := 0
	for _, a := range s.Agents {
		spent += a.Movements*s.Cfg.MoveCost + a.Cleans*s.Cfg.CleanCost
	}
	if spent > 0 {
		sum.BatteryEfficiency = float64(last.Cleans) / float64(spent) * 100
	}
	return sum
}
