package models

import (
	"errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrNoFeatures         = errors.New("no model features")
	ErrTargetLenMismatch  = errors.New("target length does not match training rows")
	ErrNoTrainingArray    = errors.New("no training array")
	ErrNoTargetArray      = errors.New("no target array")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrUntrained          = errors.New("model has not been fit")
	ErrZeroBaseRate       = errors.New("base rate is zero")
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrOptimize           = errors.New("unable to optimize weights")
)
