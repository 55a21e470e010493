// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package weather

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/uzenn/mudwatch/internal/vartype"
)

// dayBucket collects the hourly values of one civil day before aggregation.
type dayBucket struct {
	temperature []float64
	humidity    []float64
	probability []float64
	rain        []float64
	precip      []float64
}

// Aggregate reduces an hourly forecast into a daily series: precipitation
// and rain are summed per day, temperature, humidity and precipitation
// probability are averaged. The input is expected in chronological order,
// which is what every provider delivers.
func Aggregate(hourly []HourlyRecord) Series {
	if len(hourly) == 0 {
		return Series{}
	}

	series := make(Series, 0, len(hourly)/24+1)
	var bucket *dayBucket
	var bucketDay DailyRecord

	flush := func() {
		if bucket == nil {
			return
		}
		bucketDay.Precipitation = floats.Sum(bucket.precip)
		bucketDay.Rain = floats.Sum(bucket.rain)
		bucketDay.Temperature = vartype.NewVariable(stat.Mean(bucket.temperature, nil))
		bucketDay.Humidity = vartype.NewVariable(stat.Mean(bucket.humidity, nil))
		bucketDay.PrecipProbability = vartype.NewVariable(stat.Mean(bucket.probability, nil))
		series = append(series, bucketDay)
	}

	for _, rec := range hourly {
		day := Day(rec.Time)
		if bucket == nil || !day.Equal(bucketDay.Day) {
			flush()
			bucket = new(dayBucket)
			bucketDay = DailyRecord{Day: day}
		}
		bucket.temperature = append(bucket.temperature, rec.Temperature)
		bucket.humidity = append(bucket.humidity, rec.Humidity)
		bucket.probability = append(bucket.probability, rec.PrecipProbability)
		bucket.rain = append(bucket.rain, rec.Rain)
		bucket.precip = append(bucket.precip, rec.Precipitation)
	}
	flush()

	return series
}
