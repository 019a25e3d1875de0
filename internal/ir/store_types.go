package ir

// NOTE: Compilation is an archive record, not part of a program's identity.
// Its ID is generated, everything else is derived from the program.

// Compilation is one archived compiler run.
type Compilation struct {
	ID               string  `json:"id"`
	Seq              int64   `json:"seq"` // Logical clock, assigned by the store
	ProgramName      string  `json:"program_name"`
	ProgramHash      string  `json:"program_hash"`
	TableHash        string  `json:"table_hash"`
	Alphabet         string  `json:"alphabet"`
	StateCount       StateID `json:"state_count"`
	GeneratorVersion string  `json:"generator_version"`
	Source           string  `json:"source"` // Canonical program text
	Rows             []Row   `json:"rows,omitempty"`
}

// NewCompilation builds an archive record for rows compiled from p.
// ID and Seq are left for the store to assign.
func NewCompilation(p *Program, source string, rows []Row, stateCount StateID) (Compilation, error) {
	programHash, err := ProgramHash(p)
	if err != nil {
		return Compilation{}, err
	}
	tableHash, err := TableHash(rows)
	if err != nil {
		return Compilation{}, err
	}
	return Compilation{
		ProgramName:      p.Name,
		ProgramHash:      programHash,
		TableHash:        tableHash,
		Alphabet:         p.Alphabet.String(),
		StateCount:       stateCount,
		GeneratorVersion: GeneratorVersion,
		Source:           source,
		Rows:             rows,
	}, nil
}
