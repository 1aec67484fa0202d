package models

type Status struct {
	Username string  `json:"username"`
	Goal     uint32  `json:"goal"`
	Progress uint32  `json:"progress"`
	MetDate  *string `json:"threshold_met_date"`
	MetGoal  *uint32 `json:"threshold_met_goal"`
	Mode     string  `json:"mode"`
	Hosts    int     `json:"hosts"`
}
