// Package workspace manages the export output tree.
//
// Every run starts from an empty tree: the output root is removed and
// recreated with three subdirectories named after the project
// ({project}-fabrication, {project}-assembly, {project}-bom). The Tree
// type also knows the file name of every artifact the exports produce.
package workspace
