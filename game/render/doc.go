// Package render maps engine snapshots onto display elements.
//
// Hosts never interpret raw cell tags themselves. They ask Classify for the
// display category of a tag, or build a Board from a Snapshot and draw one
// element per cell:
//
//	board := render.NewBoard(gameEngine.Snapshot())
//	for _, row := range board.Rows {
//		for _, cell := range row {
//			// cell.ID is "item_<row>_<col>", cell.Class is "item empty" etc.
//		}
//	}
//
// The title element carries the class "running" while the game is live and
// "end" once it is over. Text produces a plain ASCII picture of the same board
// for terminals and agent tools.
package render
