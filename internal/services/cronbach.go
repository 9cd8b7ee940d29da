package services

// CronbachAlpha computes Cronbach's alpha for a [respondents][items] matrix
// using population variance, so perfectly correlated items give 1. Results
// are clamped to [0, 1]; ragged or degenerate input gives 0.
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}

	totals := make([]float64, n)
	columns := make([][]float64, k)
	for i, row := range matrix {
		if len(row) != k {
			return 0
		}
		for j, v := range row {
			columns[j] = append(columns[j], v)
			totals[i] += v
		}
	}

	totalVar := populationVariance(totals)
	if totalVar == 0 {
		return 0
	}
	var sumItemVars float64
	for _, col := range columns {
		sumItemVars += populationVariance(col)
	}

	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	return max(0, min(alpha, 1))
}

func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}
