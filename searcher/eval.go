package searcher

// Evaluate resolves a position that was cut off before a decisive result to
// the side judged more likely to win.
type Evaluate func(Board) Player

const kingWeight = 3

// EvaluateMaterial scores each side as (own pieces - opponent pieces) plus
// kingWeight times (own kings - opponent kings) and returns the side with the
// strictly greater score. Equal material resolves to White.
func EvaluateMaterial(board Board) Player {
	pieces, kings := tally(board)

	blackScore := (pieces[Black] - pieces[White]) + kingWeight*(kings[Black]-kings[White])
	whiteScore := (pieces[White] - pieces[Black]) + kingWeight*(kings[White]-kings[Black])

	if blackScore > whiteScore {
		return Black
	}
	return White
}

// tally counts plain pieces and kings per side over the whole board.
func tally(board Board) (pieces, kings map[Player]int) {
	pieces = map[Player]int{}
	kings = map[Player]int{}

	rows, cols := board.Size()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			owner, king := board.Piece(r, c)
			if owner != Black && owner != White {
				continue
			}
			if king {
				kings[owner]++
			} else {
				pieces[owner]++
			}
		}
	}
	return pieces, kings
}
