package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionReturned  SubmissionStatus = "returned"
)

type Attachment struct {
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type AttachmentList []Attachment

func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		l = AttachmentList{}
	}
	return json.Marshal(l)
}

func (l *AttachmentList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type SubmissionComment struct {
	UserID    uint      `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentList []SubmissionComment

func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		l = CommentList{}
	}
	return json.Marshal(l)
}

func (l *CommentList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Submission 作业提交；assignmentId 指向 type=assignment 的课时，
// (studentId, assignmentId) 唯一
type Submission struct {
	BaseModel
	StudentID      uint             `gorm:"uniqueIndex:idx_submissions_student_assignment;type:bigint unsigned;not null" json:"studentId"`
	AssignmentID   uint             `gorm:"uniqueIndex:idx_submissions_student_assignment;index:idx_submissions_assignment_status;type:bigint unsigned;not null" json:"assignmentId"`
	SubmissionText string           `gorm:"type:text" json:"submissionText,omitempty"`
	FileURL        string           `gorm:"size:512" json:"fileUrl,omitempty"`
	SubmittedAt    time.Time        `json:"submittedAt"`
	Status         SubmissionStatus `gorm:"index:idx_submissions_assignment_status;type:varchar(20);default:'submitted'" json:"status"`
	IsLate         bool             `gorm:"default:false" json:"isLate"` // 与作业截止时间比较得出
	Attachments    AttachmentList   `gorm:"type:json" json:"attachments"`
	Comments       CommentList      `gorm:"type:json" json:"comments"`
	GradeID        *uint            `gorm:"type:bigint unsigned" json:"gradeId,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// HasContent 至少要有一种提交内容
func (s *Submission) HasContent() bool {
	return s.SubmissionText != "" || s.FileURL != "" || len(s.Attachments) > 0
}

// scanJSON gorm JSON 列的通用反序列化
func scanJSON(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
