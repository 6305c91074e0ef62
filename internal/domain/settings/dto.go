package settings

type UpsertSettingRequest struct {
	Key         string                 `json:"key" binding:"required,max=100"`
	Category    string                 `json:"category" binding:"required,max=100"`
	Name        string                 `json:"name" binding:"required,max=255"`
	Value       map[string]interface{} `json:"value" binding:"required"`
	Description string                 `json:"description"`
}

// TaxConfig is the decoded shape of the "tax" setting value.
type TaxConfig struct {
	// RatePercent is the tax rate in whole percent (e.g. 16 for 16%).
	RatePercent int64 `json:"rate_percent"`
}
