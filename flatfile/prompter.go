package flatfile

// Prompter asks the user to make a decision during an import.
type Prompter interface {
	// ConfirmOverwrite is asked before a non-empty register is overwritten by an import.
	ConfirmOverwrite() bool
	// ChooseAnother is asked when the chosen file does not have the extension of the format.
	// It returns the newly chosen path, or false to cancel the import.
	ChooseAnother(format Format) (string, bool)
}

// AutoPrompter answers every question without user interaction.
// It always allows overwriting and never chooses another file.
type AutoPrompter struct{}

var _ Prompter = AutoPrompter{}

func (AutoPrompter) ConfirmOverwrite() bool {
	return true
}

func (AutoPrompter) ChooseAnother(Format) (string, bool) {
	return "", false
}

// PrompterFuncs adapts plain functions to the Prompter interface.
// A nil function behaves like AutoPrompter.
type PrompterFuncs struct {
	Overwrite func() bool
	Another   func(format Format) (string, bool)
}

var _ Prompter = PrompterFuncs{}

func (p PrompterFuncs) ConfirmOverwrite() bool {
	if p.Overwrite == nil {
		return AutoPrompter{}.ConfirmOverwrite()
	}
	return p.Overwrite()
}

func (p PrompterFuncs) ChooseAnother(format Format) (string, bool) {
	if p.Another == nil {
		return AutoPrompter{}.ChooseAnother(format)
	}
	return p.Another(format)
}
