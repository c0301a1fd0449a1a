package profile

import "fmt"

// DuplicateProfileError reports an attempt to register a profile under
// a name that is already taken.
type DuplicateProfileError struct {
	Name string
}

func (e *DuplicateProfileError) Error() string {
	return fmt.Sprintf("profile %q is already registered", e.Name)
}

// Kind returns the error family. All registry errors are "profile";
// run reporters assert for this method to group errors by family.
func (e *DuplicateProfileError) Kind() string { return "profile" }

// ProfileNotFoundError reports a lookup for an unregistered profile.
type ProfileNotFoundError struct {
	Name string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found", e.Name)
}

func (e *ProfileNotFoundError) Kind() string { return "profile" }

// InvalidToleranceError reports a profile rejected at registration time
// because its geometry or tolerance values cannot produce a valid fit.
type InvalidToleranceError struct {
	Name   string
	Reason string
}

func (e *InvalidToleranceError) Error() string {
	return fmt.Sprintf("profile %q: %s", e.Name, e.Reason)
}

func (e *InvalidToleranceError) Kind() string { return "profile" }
