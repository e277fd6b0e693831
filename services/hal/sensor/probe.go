package sensor

import (
	"tinygo.org/x/drivers"

	"throttlehal-go/diag"
)

// Probe addresses each candidate in order with an empty write and returns
// the first one that acknowledges. Later candidates are not touched.
// It reports one Info record on success or one Warn record listing every
// address tried.
func Probe(bus drivers.I2C, cands []Candidate, log diag.Logger) (Candidate, bool) {
	log = diag.OrNop(log)
	if bus == nil || len(cands) == 0 {
		return Candidate{}, false
	}
	for _, c := range cands {
		if bus.Tx(uint16(c.Addr), nil, nil) == nil {
			log.Info("sensor found", "addr", c.Addr.String(), "label", c.Label)
			return c, true
		}
	}
	tried := make([]byte, 0, 5*len(cands))
	for i, c := range cands {
		if i > 0 {
			tried = append(tried, ',')
		}
		tried = append(tried, c.Addr.String()...)
	}
	log.Warn("sensor not found", "tried", string(tried))
	return Candidate{}, false
}
