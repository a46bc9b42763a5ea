package model

import "math"

// ROIRow is the payback estimate of one education track.
type ROIRow struct {
	Track            string  `json:"track"`
	Tuition          float64 `json:"tuition"`
	StudyHours       float64 `json:"study_hours"`
	IncrementalDaily float64 `json:"incremental_daily"`
	ROIPerHour       float64 `json:"roi_per_hour"`
	PaybackDays      float64 `json:"payback_days"`
	NetGainHorizon   float64 `json:"net_gain_horizon"`
	Details          string  `json:"details"`
}

// PaysBack reports whether the track ever recovers its tuition.
func (r ROIRow) PaysBack() bool {
	return !math.IsInf(r.PaybackDays, 1)
}
