// Package journal is the submission handler and read side of the
// synchronicity journal.
//
// Service.Submit runs the full logging sequence against the store:
//
//  1. validate and normalize the submission
//  2. create the event record
//  3. count the user's prior shared events and score the submission
//  4. apply the points delta
//  5. advance the streak and apply it, with the milestone bonus if reached
//
// Steps run strictly in order. A failed step aborts the rest and is returned
// to the caller; steps already applied are not undone.
//
// The remaining Service methods back the community feed, reactions, tag
// trends, the map view and profile settings.
package journal
