// Package mastery implements the word-mastery state machine: the bucket
// transition function, quiz word ranking, and the service tying quiz outcomes
// to progress rows and daily aggregates.
package mastery

import "github.com/example/wordweave/pkg/models"

// Apply advances or demotes a bucket for one quiz outcome. A correct answer
// climbs one step on the ladder and is terminal at mastered; an incorrect
// answer demotes straight to needs_work regardless of the current bucket.
func Apply(bucket models.Bucket, isCorrect bool) models.Bucket {
	if !isCorrect {
		return models.BucketNeedsWork
	}
	switch bucket {
	case models.BucketNeedsWork:
		return models.BucketFamiliar
	case models.BucketFamiliar, models.BucketMastered:
		return models.BucketMastered
	}
	return models.BucketFamiliar
}
