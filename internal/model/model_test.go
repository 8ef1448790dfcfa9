package model

import "testing"

func TestSetWinner(t *testing.T) {
	cases := []struct {
		name   string
		set    Set
		want   TeamSide
		wantOK bool
	}{
		{name: "team a ahead", set: Set{TeamAPoints: 25, TeamBPoints: 20}, want: TeamA, wantOK: true},
		{name: "team b ahead", set: Set{TeamAPoints: 23, TeamBPoints: 25}, want: TeamB, wantOK: true},
		{name: "tie has no winner", set: Set{TeamAPoints: 24, TeamBPoints: 24}, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.set.Winner()
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("winner: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeltaFor(t *testing.T) {
	cases := []struct {
		pt   PointType
		want PerformanceDelta
	}{
		{PointSpike, PerformanceDelta{PlayerID: 7, SetNumber: 2, Points: 1}},
		{PointAce, PerformanceDelta{PlayerID: 7, SetNumber: 2, Points: 1, Aces: 1}},
		{PointBlock, PerformanceDelta{PlayerID: 7, SetNumber: 2, Points: 1, Blocks: 1}},
		{PointOpponentError, PerformanceDelta{PlayerID: 7, SetNumber: 2, Points: 1}},
	}

	for _, tc := range cases {
		if got := DeltaFor(7, 2, tc.pt); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.pt, got, tc.want)
		}
	}
}
