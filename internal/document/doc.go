// Package document defines the shared configuration record and the generic
// document form it is edited in. A Document is a nested string-keyed map
// addressed with dotted key paths such as "database.host". Validate checks a
// document against the embedded JSON schema for the record.
package document
