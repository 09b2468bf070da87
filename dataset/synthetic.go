package dataset

import "math/rand"

// Synthetic generates a diabetes-risk style dataset with the standard
// eight feature columns. Labels follow a fixed linear rule over
// glucose, BMI and age so that a logistic model has something to learn.
// The same rows and seed always produce the same dataset.
func Synthetic(rows int, seed int64) Dataset {
	rng := rand.New(rand.NewSource(seed))

	d := Dataset{
		Features: make([][]float64, rows),
		Labels:   make([]float64, rows),
	}
	for i := range rows {
		pregnancies := float64(rng.Intn(13))
		glucose := 70 + rng.Float64()*130
		bloodPressure := 40 + rng.Float64()*80
		skinThickness := rng.Float64() * 60
		insulin := rng.Float64() * 300
		bmi := 18 + rng.Float64()*32
		pedigree := 0.1 + rng.Float64()*1.9
		age := 21 + rng.Float64()*49

		d.Features[i] = []float64{
			pregnancies, glucose, bloodPressure, skinThickness,
			insulin, bmi, pedigree, age,
		}

		risk := 0.012*glucose + 0.03*bmi + 0.01*age - 2.9
		if risk > 0 {
			d.Labels[i] = 1
		}
	}

	return d
}
