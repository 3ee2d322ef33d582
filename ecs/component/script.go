package component

// Script attaches a tengo program to an entity. The program must define
// update(entity); the script system calls it once per frame.
type Script struct {
	// Name identifies the program in logs and caches. Entities sharing a
	// Name share one compiled program.
	Name   string
	Source string
	// Disabled is set after the program fails so it is not rerun every frame.
	Disabled bool
}
