// Package aggregate derives the chart data from a loaded collection. All
// functions are pure and leave their input untouched.
package aggregate

import (
	"math"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

// Category is a weight-ratio class.
type Category int

const (
	Underweight Category = iota
	Healthy
	Overweight
	Obese

	numCategories
)

var categoryLabels = [numCategories]string{"Underweight", "Healthy", "Overweight", "Obese"}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "Unknown"
	}
	return categoryLabels[c]
}

// Lower bounds of Healthy, Overweight and Obese.
const (
	healthyMin    = 18.5
	overweightMin = 25
	obeseMin      = 30
)

// Categorize places a bmi value into its class. Each lower bound belongs to
// the class it starts.
func Categorize(bmi float64) Category {
	switch {
	case bmi < healthyMin:
		return Underweight
	case bmi < overweightMin:
		return Healthy
	case bmi < obeseMin:
		return Overweight
	default:
		return Obese
	}
}

// Bucket is the number of records in one class.
type Bucket struct {
	Label Category
	Count int
}

// BucketizeByWeightRatio counts records per class. The result always holds
// four buckets in class order, including empty ones.
func BucketizeByWeightRatio(records []creature.Record) []Bucket {
	buckets := make([]Bucket, numCategories)
	for i := range buckets {
		buckets[i].Label = Category(i)
	}
	for _, r := range records {
		buckets[Categorize(r.BMI)].Count++
	}
	return buckets
}

// Total sums the bucket counts.
func Total(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}

// Percentages returns each bucket's share of the total, rounded to the
// nearest integer. It returns nil when the total is zero.
func Percentages(buckets []Bucket) []int {
	total := Total(buckets)
	if total == 0 {
		return nil
	}
	out := make([]int, len(buckets))
	for i, b := range buckets {
		out[i] = int(math.Round(float64(b.Count) * 100 / float64(total)))
	}
	return out
}
