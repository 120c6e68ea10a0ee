package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyDocument は MongoDB 上でのアンケートスキーマを Go 構造体として表現したもの。
type SurveyDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	SurveyID       string               `bson:"surveyId"`
	Basic          SurveyBasicDocument  `bson:"basic"`
	Client         SurveyClientDocument `bson:"client"`
	Countries      []CountryDocument    `bson:"countries"`
	Status         string               `bson:"status"`
	TotalCompletes int                  `bson:"totalCompletes"`
	CreatedBy      string               `bson:"createdBy,omitempty"`
	Notes          string               `bson:"notes,omitempty"`
	CreatedAt      *time.Time           `bson:"createdAt,omitempty"`
	UpdatedAt      *time.Time           `bson:"updatedAt,omitempty"`
}

// SurveyBasicDocument はアンケート基本情報の埋め込み構造。psCode は採番済みの数値コード。
type SurveyBasicDocument struct {
	Name   string `bson:"name"`
	PsCode int    `bson:"psCode"`
}

// SurveyClientDocument は発注クライアント情報の埋め込み構造。
type SurveyClientDocument struct {
	ClientID   string `bson:"clientId"`
	ClientName string `bson:"clientName,omitempty"`
}

// CountryDocument は国別ブロック。liveUrl が無ければ testUrl を使う。
type CountryDocument struct {
	Country         string           `bson:"country"`
	TargetCompletes int              `bson:"targetCompletes,omitempty"`
	LiveURL         string           `bson:"liveUrl,omitempty"`
	TestURL         string           `bson:"testUrl,omitempty"`
	Vendors         []VendorDocument `bson:"vendors"`
}

// VendorDocument は国ブロック内のベンダー設定。isActive 未設定は有効扱い。
type VendorDocument struct {
	VendorID   string            `bson:"vendorId"`
	VendorName string            `bson:"vendorName"`
	Allocation int               `bson:"allocation"`
	Quota      bool              `bson:"quota"`
	Redirects  RedirectsDocument `bson:"redirects"`
	StartURL   string            `bson:"startUrl,omitempty"`
	IsActive   *bool             `bson:"isActive,omitempty"`
}

// RedirectsDocument はステータス別の戻り先 URL。
type RedirectsDocument struct {
	CompleteRedirect  string `bson:"completeRedirect,omitempty"`
	QuotaFullRedirect string `bson:"quotaFullRedirect,omitempty"`
	TerminateRedirect string `bson:"terminateRedirect,omitempty"`
	SecurityRedirect  string `bson:"securityRedirect,omitempty"`
}

// SurveyResponseDocument は回答者 1 名分の台帳レコード。(surveyId, uid) で一意。
type SurveyResponseDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	SurveyID    string             `bson:"surveyId"`
	PsCode      int                `bson:"psCode"`
	UID         string             `bson:"uid"`
	VendorID    string             `bson:"vendorId"`
	VendorName  string             `bson:"vendorName"`
	Country     string             `bson:"country"`
	Status      string             `bson:"status"`
	IPAddress   string             `bson:"ipAddress,omitempty"`
	UserAgent   string             `bson:"userAgent,omitempty"`
	StartedAt   time.Time          `bson:"startedAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// SurveyStatsDocument は overall/country/vendor の 3 階層を 1 コレクションで表す統計行。
//   - overall: country=null, vendor_id=null
//   - country: country=X,    vendor_id=null
//   - vendor:  country=X,    vendor_id=Y
type SurveyStatsDocument struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	SurveyID    string                `bson:"survey_id"`
	Country     *string               `bson:"country"`
	VendorID    *string               `bson:"vendor_id"`
	Stats       StatsCountersDocument `bson:"stats"`
	CreatedAt   time.Time             `bson:"created_at"`
	LastUpdated time.Time             `bson:"last_updated"`
}

// StatsCountersDocument は統計行のカウンタ群。
type StatsCountersDocument struct {
	Initiated  int `bson:"initiated"`
	Completed  int `bson:"completed"`
	Terminated int `bson:"terminated"`
	QuotaFull  int `bson:"quota_full"`
	Security   int `bson:"security"`
}
