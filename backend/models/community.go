package models

// LeaderboardRow is derived on every view, never stored.
type LeaderboardRow struct {
	Rank       int     `json:"rank"`
	Username   string  `json:"username"`
	Patent     string  `json:"patent"`
	Questions  int     `json:"questions"`
	Pages      int     `json:"pages"`
	StreakDays int     `json:"streak_days"`
	TotalHours float64 `json:"total_hours"`
}

// Overview bundles every derived statistic the dashboard shows.
type Overview struct {
	TotalQuestions int     `json:"total_questions"`
	TotalPages     int     `json:"total_pages"`
	TotalSets      int     `json:"total_sets"`
	StreakDays     int     `json:"streak_days"`
	Level          int     `json:"level"`
	Patent         string  `json:"patent"`
	PatentPercent  float64 `json:"patent_percent"`
	PatentCurrent  int     `json:"patent_current"`
	PatentMissing  int     `json:"patent_missing"`
	GoldStars      int     `json:"gold_stars"`
	SilverStars    int     `json:"silver_stars"`
	BronzeStars    int     `json:"bronze_stars"`
	TreeBranches   int     `json:"tree_branches"`
}
