package metadata

type LookupQuery struct {
	ISBN string `query:"isbn" json:"isbn" validate:"required,max=40"`
}
