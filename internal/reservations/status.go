package reservations

// DepositStatus is the paid state of a reservation deposit
type DepositStatus string

const (
	DepositUnpaid DepositStatus = "unpaid"
	DepositPaid   DepositStatus = "paid"
)

func (s DepositStatus) IsValid() bool {
	return s == DepositUnpaid || s == DepositPaid
}

func (s DepositStatus) String() string {
	return string(s)
}

// SortOrder selects how List orders reservations
type SortOrder string

const (
	SortNone          SortOrder = ""
	SortByEventDate   SortOrder = "eventDate"
	SortByCreatedDesc SortOrder = "createdAt"
)

func (o SortOrder) IsValid() bool {
	return o == SortNone || o == SortByEventDate || o == SortByCreatedDesc
}
