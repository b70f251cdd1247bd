// Package model defines the records shared by the store, the gamification
// engine, and the submission handler.
package model
