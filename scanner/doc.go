/*
Package scanner reads Go source and describes the types it declares.

It is the build-time scanner behind repogen. Given a base import path inside a
module, it walks the package and its sub-packages on an afero filesystem,
parses every non-test file and returns one contract.Type per type declaration,
with embedded elements resolved to package-qualified names:

	s := scanner.New(afero.NewOsFs(), scanner.WithModuleDir("."))
	for _, t := range s.Scan("example.com/shop") {
	    if contract.IsRepositoryContract(t) {
	        fmt.Println(t.QualifiedName(), contract.ResolveIndexName(t))
	    }
	}

Directories named testdata or vendor, those starting with "_" or ".", and
nested modules are skipped. Files that do not parse are logged and skipped.
*/
package scanner
