package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidToken = errors.New("token not found or expired")
var ErrInvalidCredentials = errors.New("invalid credentials") // email or password provided does not match database record
var ErrEmailTaken = errors.New("email already registered")
var ErrAccountInactive = errors.New("account has been deactivated")

// ErrBackwardTransition indicates an attempt to move a delivery's status
// backwards along the Pending -> InTransit -> Delivered progression.
var ErrBackwardTransition = errors.New("cannot move delivery status backwards")

// ErrInvalidDriver indicates the referenced user is not an active driver.
var ErrInvalidDriver = errors.New("invalid or inactive driver")

// ErrDeliveryNotAssignable indicates the delivery is no longer pending and
// cannot accept a driver assignment.
var ErrDeliveryNotAssignable = errors.New("can only assign drivers to pending deliveries")
