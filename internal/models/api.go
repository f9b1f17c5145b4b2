package models

// HistoryRequest is the body of a historical price lookup
type HistoryRequest struct {
	State     string `json:"state"`
	Commodity string `json:"commodity"`
}

// ForecastRequest is the body of a forecast lookup
type ForecastRequest struct {
	State     string `json:"state"`
	Commodity string `json:"commodity"`
	Horizon   int    `json:"horizon"`
}

// RawSeries is a date->price object as the service sends it. A null price
// decodes to a nil entry.
type RawSeries map[string]*float64

// HistoryResponse is the 200 body of the history endpoint. Extra fields the
// service sends are ignored.
type HistoryResponse struct {
	ModalRsQuintal RawSeries `json:"modal_rs_quintal"`
}

// ForecastResponse is the 200 body of the forecast endpoint
type ForecastResponse struct {
	Y RawSeries `json:"y"`
}
