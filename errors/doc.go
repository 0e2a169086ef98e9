/*
Package errors provides semantic error types for searchstore.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound              = errors.New("not found")
	    ErrAlreadyExists         = errors.New("already exists")
	    ErrInvalidInput          = errors.New("invalid input")
	    ErrDiscoveryIO           = errors.New("repository discovery failed")
	    ErrTypeLoad              = errors.New("type could not be loaded")
	    ErrDuplicateRegistration = errors.New("duplicate registration")
	    ErrMissingIndexName      = errors.New("missing index name")
	    ErrSynthesis             = errors.New("repository synthesis failed")
	)

Discovery errors (ErrDiscoveryIO, ErrTypeLoad) are logged and swallowed by the
scanners: a broken artifact never aborts the host. Registration and synthesis
errors (ErrDuplicateRegistration, ErrSynthesis) are returned from Bootstrap and
should stop startup.

Usage:

	product, err := products.FindByID(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        return nil, fmt.Errorf("product %s does not exist", "123")
	    }
	    return nil, err
	}
*/
package errors
