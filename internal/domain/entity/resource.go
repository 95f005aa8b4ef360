package entity

import "time"

// ServiceKind identifies the AWS service a scanned resource belongs to.
type ServiceKind string

const (
	ServiceEC2      ServiceKind = "EC2"
	ServiceRDS      ServiceKind = "RDS"
	ServiceS3       ServiceKind = "S3"
	ServiceLambda   ServiceKind = "Lambda"
	ServiceEBS      ServiceKind = "EBS"
	ServiceEIP      ServiceKind = "EIP"
	ServiceLogGroup ServiceKind = "CloudWatchLogs"
	ServiceAlarm    ServiceKind = "CloudWatchAlarm"
)

// ScanServices is the fixed set of per-region scan targets. S3 is listed
// once globally and is therefore not part of this set.
var ScanServices = []ServiceKind{
	ServiceEC2,
	ServiceEBS,
	ServiceEIP,
	ServiceRDS,
	ServiceLambda,
	ServiceLogGroup,
	ServiceAlarm,
}

// ResourceState is the normalized lifecycle state of a resource.
type ResourceState string

const (
	StateRunning   ResourceState = "running"
	StateStopped   ResourceState = "stopped"
	StateAvailable ResourceState = "available"
	StateOther     ResourceState = "other"
)

// Billable reports whether the state accrues ongoing hourly charges.
func (s ResourceState) Billable() bool {
	return s == StateRunning || s == StateAvailable
}

// ResourceMeta is the minimal description shared by every resource variant.
type ResourceMeta struct {
	ID      string
	Service ServiceKind
	Region  string
	Class   string // instance type or storage class; empty when not applicable
	Status  ResourceState
	Created time.Time
}

// ResourceRecord is a tagged resource variant. Consumers switch on
// Meta().Service (or type-assert) for variant-specific fields.
type ResourceRecord interface {
	Meta() ResourceMeta
}

// EC2Record describes one EC2 instance.
type EC2Record struct {
	ResourceMeta
	Name string
}

// RDSRecord describes one RDS database instance.
type RDSRecord struct {
	ResourceMeta
	Engine string
}

// S3Record describes one S3 bucket. The ID is the bucket name.
type S3Record struct {
	ResourceMeta
}

// LambdaRecord describes one Lambda function.
type LambdaRecord struct {
	ResourceMeta
	Runtime  string
	CodeSize int64
}

// VolumeRecord describes one EBS volume. Unattached volumes still bill
// per provisioned GiB.
type VolumeRecord struct {
	ResourceMeta
	SizeGiB  int32
	Attached bool
}

// AddressRecord describes one Elastic IP allocation.
type AddressRecord struct {
	ResourceMeta
	PublicIP   string
	Associated bool
}

// LogGroupRecord describes one CloudWatch Logs log group.
type LogGroupRecord struct {
	ResourceMeta
	StoredBytes   int64
	RetentionDays int32
}

// AlarmRecord describes one CloudWatch alarm.
type AlarmRecord struct {
	ResourceMeta
	StateValue string
}

func (r EC2Record) Meta() ResourceMeta      { return r.ResourceMeta }
func (r RDSRecord) Meta() ResourceMeta      { return r.ResourceMeta }
func (r S3Record) Meta() ResourceMeta       { return r.ResourceMeta }
func (r LambdaRecord) Meta() ResourceMeta   { return r.ResourceMeta }
func (r VolumeRecord) Meta() ResourceMeta   { return r.ResourceMeta }
func (r AddressRecord) Meta() ResourceMeta  { return r.ResourceMeta }
func (r LogGroupRecord) Meta() ResourceMeta { return r.ResourceMeta }
func (r AlarmRecord) Meta() ResourceMeta    { return r.ResourceMeta }

// IdleResource marks a billable instance whose average CPU stayed below the
// idle threshold over the sampled window.
type IdleResource struct {
	ID     string
	Class  string
	Region string
	AvgCPU float64
}
