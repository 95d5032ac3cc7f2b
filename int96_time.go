package parquetmeta

import (
	"encoding/binary"
	"time"
)

const (
	// julian day of Jan 01 1970
	jan011970 = 2440588
	secPerDay = 24 * 60 * 60
)

// Int96ToTime converts a legacy INT96 timestamp, as found in the statistics
// of INT96 columns, into a UTC time. The first 8 bytes hold the nanoseconds
// within the day and the last 4 bytes the Julian day number.
func Int96ToTime(parquetDate [12]byte) time.Time {
	nsec := binary.LittleEndian.Uint64(parquetDate[:8])
	jd := binary.LittleEndian.Uint32(parquetDate[8:])

	sec := (int64(jd) - jan011970) * secPerDay
	return time.Unix(sec, int64(nsec)).UTC()
}

// TimeToInt96 converts t into an INT96 Julian date.
func TimeToInt96(t time.Time) [12]byte {
	days := t.Unix() / secPerDay
	if t.Unix()%secPerDay < 0 {
		days--
	}
	nsec := t.UnixNano() - days*secPerDay*int64(time.Second)

	var parquetDate [12]byte
	binary.LittleEndian.PutUint64(parquetDate[:8], uint64(nsec))
	binary.LittleEndian.PutUint32(parquetDate[8:], uint32(days+jan011970))
	return parquetDate
}
