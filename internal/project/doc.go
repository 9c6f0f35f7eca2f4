// Package project resolves, creates, and lists footage project directories.
//
// A project directory is named YYYY-MM-DD_<label> and holds the layer/type
// tree plus manifest.json. ParseDirName and Name.DirName are the only code
// that decodes or builds those names.
package project
