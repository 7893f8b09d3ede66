package domain

// DirectorySubject is one hit from the subject directory service
type DirectorySubject struct {
	SubjectID   string `json:"subjectID"`
	FullName    string `json:"fullName"`
	Institution string `json:"institution"`
	Program     string `json:"program,omitempty"`
}
