package entity

// Label is the class predicted for a text
type Label string

const (
	LabelNotCyberbullying Label = "not_cyberbullying"
	LabelCyberbullying    Label = "cyberbullying"
)

// Labels lists the classes in model output order
var Labels = []Label{LabelNotCyberbullying, LabelCyberbullying}

// IsValid returns true for one of the two known classes
func (l Label) IsValid() bool {
	return l == LabelNotCyberbullying || l == LabelCyberbullying
}

// Index returns the model output index for the label, or -1
func (l Label) Index() int {
	for i, known := range Labels {
		if known == l {
			return i
		}
	}
	return -1
}

func (l Label) String() string {
	return string(l)
}
