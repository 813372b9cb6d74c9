// Package preset ships reusable negotiation role sets. A preset names the
// parties and their fixed positions; the topic is bound at load time, so one
// preset serves any question.
package preset
