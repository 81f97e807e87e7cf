package models

// Source identifiers written into every record's "source" field.
const (
	SourceBytedance   = "bytedance"
	SourceAlibabaStar = "alibaba_star"
	SourceTencent     = "tencent"
)

const tencentDetailURL = "https://join.qq.com/post_detail.html?postid="

// TencentDetailURL builds the public detail page of a Tencent posting.
func TencentDetailURL(postID string) string {
	return tencentDetailURL + postID
}

// BytedanceRecord is a cleaned jobs.bytedance.com posting.
// Nil pointers are written as null.
type BytedanceRecord struct {
	Source         string   `json:"source"`
	JobID          string   `json:"job_id"`
	Code           *string  `json:"code"`
	Title          *string  `json:"title"`
	Category       *string  `json:"category"`
	CategoryParent *string  `json:"category_parent"`
	RecruitType    *string  `json:"recruit_type"`
	Subject        *string  `json:"subject"`
	PrimaryCity    *string  `json:"primary_city"`
	Locations      []string `json:"locations"`
	PublishTimeMs  any      `json:"publish_time_ms"`
	PublishTimeISO *string  `json:"publish_time_iso"`
	Description    *string  `json:"description"`
	Requirement    *string  `json:"requirement"`
}

// AlibabaRecord is a cleaned talent.alibaba.com posting.
// List fields carry the raw values untouched.
type AlibabaRecord struct {
	Source             string  `json:"source"`
	JobID              string  `json:"job_id"`
	Title              *string `json:"title"`
	Status             *string `json:"status"`
	Category           *string `json:"category"`
	CategoryType       *string `json:"category_type"`
	BatchName          *string `json:"batch_name"`
	CircleNames        []any   `json:"circle_names"`
	WorkLocations      []any   `json:"work_locations"`
	InterviewLocations []any   `json:"interview_locations"`
	Channels           []any   `json:"channels"`
	PositionURL        *string `json:"position_url"`
	ModifyTimeMs       any     `json:"modify_time_ms"`
	ModifyTimeISO      *string `json:"modify_time_iso"`
	GraduationFromMs   any     `json:"graduation_from_ms"`
	GraduationFromISO  *string `json:"graduation_from_iso"`
	GraduationToMs     any     `json:"graduation_to_ms"`
	GraduationToISO    *string `json:"graduation_to_iso"`
	Description        *string `json:"description"`
	Requirement        *string `json:"requirement"`
}

// TencentRecord is a cleaned join.qq.com posting detail.
type TencentRecord struct {
	Source           string           `json:"source"`
	JobID            string           `json:"job_id"`
	URL              string           `json:"url"`
	Title            *string          `json:"title"`
	Category         *string          `json:"category"`
	ProjectName      *string          `json:"project_name"`
	RecruitLabelName *string          `json:"recruit_label_name"`
	RecruitType      any              `json:"recruit_type"`
	WorkLocations    []string         `json:"work_locations"`
	RecruitCityList  []string         `json:"recruit_city_list"`
	DepartmentIDs    []int            `json:"department_ids"`
	IntentionBGDs    []IntentionGroup `json:"intention_bgds"`
	Description      *string          `json:"description"`
	Requirement      *string          `json:"requirement"`
}

// IntentionGroup keeps the structural part of a Tencent "intention BGD" entry.
type IntentionGroup struct {
	ID             any          `json:"id"`
	Title          any          `json:"title"`
	ShowTitle      any          `json:"showTitle"`
	ShowTxt        any          `json:"showTxt"`
	DepartmentList []Department `json:"departmentList"`
}

// Department is a compacted department entry; the long "comment" text is dropped.
type Department struct {
	ID           any   `json:"id"`
	Name         any   `json:"name"`
	Bgid         any   `json:"bgid"`
	Ordering     any   `json:"ordering"`
	EnableFlag   any   `json:"enableFlag"`
	WorkCityList []any `json:"workCityList"`
}
