package scaffold

import "github.com/teranos/dsg/errors"

var (
	// ErrDeclarationNotFound means a template does not declare the identifier the
	// caller asked for. Template and caller disagree, so this is never retried.
	ErrDeclarationNotFound = errors.New("declaration not found")

	// ErrIncompatibleReplacement means a placeholder occupies a slot the
	// replacement node cannot fill, e.g. a composite literal as a type name.
	ErrIncompatibleReplacement = errors.New("incompatible placeholder replacement")

	// ErrNotExtensible means members were appended to something other than a
	// type declaration.
	ErrNotExtensible = errors.New("declaration is not extensible")
)
