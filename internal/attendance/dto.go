package attendance

type TodayResponse struct {
	Date   string  `json:"date"`
	Record *Record `json:"record"`
}

type HistoryResponse struct {
	Records []*Record `json:"records"`
}
