package profiling

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the shape of a count distribution
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"excess_kurtosis"`
}

// summarize computes the summary of data. Empty data yields a zero Summary.
func summarize(data []float64) (Summary, error) {
	s := Summary{N: len(data)}
	if len(data) == 0 {
		return s, nil
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.Q25, err = stats.PercentileNearestRank(data, 25); err != nil {
		return s, err
	}
	if s.Q75, err = stats.PercentileNearestRank(data, 75); err != nil {
		return s, err
	}

	// shape is undefined for constant or tiny samples
	if len(data) >= 3 && s.StdDev > 0 {
		s.Skewness = stat.Skew(data, nil)
	}
	if len(data) >= 4 && s.StdDev > 0 {
		s.Kurtosis = stat.ExKurtosis(data, nil)
	}
	return s, nil
}

// iqrBounds returns the Tukey fences q25-1.5*IQR and q75+1.5*IQR.
func iqrBounds(q25, q75 float64) (lower, upper float64) {
	iqr := q75 - q25
	return q25 - 1.5*iqr, q75 + 1.5*iqr
}
