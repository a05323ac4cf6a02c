package monitor

import "time"

type Status struct {
	MongoDB    bool      `json:"mongodb"`
	Redis      bool      `json:"redis"`
	TokenStore bool      `json:"token_store"`
	LastCheck  time.Time `json:"last_check"`
}
