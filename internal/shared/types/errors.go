package types

import "errors"

var ErrNoCredentials = errors.New("unable to resolve AWS credentials. Please configure AWS CLI first")
