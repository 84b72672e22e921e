/*******************************************************************************
The MIT License (MIT)

Copyright (c) 2013 Hajime Nakagami

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
the Software, and to permit persons to whom the Software is furnished to do so,
subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*******************************************************************************/

package fb

import "time"

// Firebird stores DATE as days since 1858-11-17 (modified Julian day) and
// TIME as 1/10000 seconds since midnight.

func encodeDate(year int, month time.Month, day int) int32 {
	m := int(month)
	if m > 2 {
		m -= 3
	} else {
		m += 9
		year--
	}
	c := year / 100
	ya := year - 100*c
	return int32((146097*c)/4 + (1461*ya)/4 + (153*m+2)/5 + day + 1721119 - 2400001)
}

func decodeDate(nday int32) (year int, month time.Month, day int) {
	n := int(nday) + 678882
	century := (4*n - 1) / 146097
	n = 4*n - 1 - 146097*century
	d := n / 4
	n = (4*d + 3) / 1461
	d = 4*d + 3 - 1461*n
	d = (d + 4) / 4
	m := (5*d - 3) / 153
	d = 5*d - 3 - 153*m
	d = (d + 5) / 5
	year = 100*century + n
	if m < 10 {
		m += 3
	} else {
		m -= 9
		year++
	}
	return year, time.Month(m), d
}

func encodeTime(t time.Time) uint32 {
	ticks := uint32((t.Hour()*60+t.Minute())*60+t.Second()) * ISC_TIME_SECONDS_PRECISION
	return ticks + uint32(t.Nanosecond()/100000)
}

func decodeTime(ticks uint32) (hour, min, sec, nsec int) {
	s := int(ticks / ISC_TIME_SECONDS_PRECISION)
	nsec = int(ticks%ISC_TIME_SECONDS_PRECISION) * 100000
	hour = s / 3600
	min = s / 60 % 60
	sec = s % 60
	return
}

// timestampFrom is not clamped at the Unix epoch; dates before 1970
// round-trip unchanged.
func timestampFrom(date int32, ticks uint32, loc *time.Location) time.Time {
	year, month, day := decodeDate(date)
	hour, min, sec, nsec := decodeTime(ticks)
	return time.Date(year, month, day, hour, min, sec, nsec, loc)
}

func dateFrom(date int32, loc *time.Location) time.Time {
	year, month, day := decodeDate(date)
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// TIME values carry no date; they are placed on the Unix epoch day.
func timeFrom(ticks uint32, loc *time.Location) time.Time {
	hour, min, sec, nsec := decodeTime(ticks)
	return time.Date(1970, time.January, 1, hour, min, sec, nsec, loc)
}
