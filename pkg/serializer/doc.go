// Package serializer writes command results as JSON, YAML or tables.
//
// Values implementing Tabular control their table columns; other values
// are flattened into FIELD/VALUE rows with dotted keys.
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, result); err != nil {
//		return err
//	}
package serializer
