package readfilter

import "github.com/biogo/hts/sam"

// mapQUnavailable is the SAM sentinel for "mapping quality not available".
const mapQUnavailable = 255

// ByQuality rejects reads with an unavailable or too-low mapping quality,
// and bases with too-low phred quality.
type ByQuality struct {
	MinMapQ byte
	MinBase byte
}

func (f ByQuality) ReadOk(r *sam.Record) bool {
	return r.MapQ != mapQUnavailable && r.MapQ >= f.MinMapQ
}

func (f ByQuality) BaseOk(_ *sam.Record, qual byte) bool {
	return qual >= f.MinBase
}
