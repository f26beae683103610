/*
Package textdict reads and writes dictionaries in the OpenCC text format.

Each line holds one entry: a key, a tab, and one or more candidates
separated by spaces. The first candidate is the preferred conversion.

	中文转换	中文轉換
	干	幹 乾 干

Blank lines and lines starting with '#' are ignored. A leading byte order
mark and Windows line endings are accepted. Keys must be unique within a
file.
*/
package textdict
