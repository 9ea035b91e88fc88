// Package prover implements the five-round Baby-Plonk prover. It consumes a
// proving key and a witness file and produces a Proof together with the
// circuit's public inputs.
package prover

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/consensys/babyplonk/curve"

	// register the supported engines
	_ "github.com/consensys/babyplonk/curve/bls12381"
	_ "github.com/consensys/babyplonk/curve/bn254"

	"github.com/consensys/babyplonk/fft"
	"github.com/consensys/babyplonk/fiatshamir"
	"github.com/consensys/babyplonk/internal/parallel"
	"github.com/consensys/babyplonk/logger"
	"github.com/consensys/babyplonk/polynomial"
	"github.com/consensys/babyplonk/witness"
	"github.com/consensys/babyplonk/zkey"
)

var (
	// ErrInvalidProvingKey reports a malformed or foreign proving key.
	ErrInvalidProvingKey = zkey.ErrInvalidProvingKey

	// ErrWitnessMismatch reports a witness that does not belong to the
	// proving key (wrong field or wrong length).
	ErrWitnessMismatch = errors.New("prover: witness does not match proving key")

	// ErrCopyConstraintViolation reports a witness that fails the
	// permutation argument: the accumulator does not telescope back to 1.
	ErrCopyConstraintViolation = errors.New("prover: copy constraints not satisfied")

	// ErrDivisibilityViolation reports a non-zero remainder in one of the
	// polynomial divisions (raised only by debug builds).
	ErrDivisibilityViolation = polynomial.ErrDivisibility
)

type challenges struct {
	b [9]curve.Scalar // blinding factors, 1-indexed b1..b8

	beta, gamma curve.Scalar
	alpha       curve.Scalar
	alpha2      curve.Scalar
	zeta        curve.Scalar
	zetaOmega   curve.Scalar
	v           [4]curve.Scalar
	vp          [2]curve.Scalar
}

type prover struct {
	e   curve.Engine
	pk  *zkey.ProvingKey
	cfg Config

	domain *fft.Domain
	tr     *fiatshamir.Transcript
	ptau   curve.PointTable

	wit      []curve.Scalar // witness values from the file, Montgomery form
	internal []curve.Scalar // values computed from the additions section

	bufA, bufB []curve.Scalar

	polA, polB *polynomial.Polynomial
	polZ       *polynomial.Polynomial
	polNum     *polynomial.Polynomial // round-3 identity numerator, T*Z_H before division
	polTz      *polynomial.Polynomial // blinding perturbation folded into T after division
	polT       *polynomial.Polynomial
	polTL      *polynomial.Polynomial
	polTH      *polynomial.Polynomial
	polR       *polynomial.Polynomial
	polS1      *polynomial.Polynomial
	polWxi     *polynomial.Polynomial
	polWxiw    *polynomial.Polynomial

	evalA, evalB, evalZ *polynomial.Evaluations
	sigma               *polynomial.Evaluations

	q1Coefs, q2Coefs, s2Coefs []curve.Scalar

	ch    challenges
	evalT curve.Scalar // T(zeta); consumed by round 5, not part of the proof
	proof *Proof
}

// Prove runs the Baby-Plonk protocol over the given proving key and witness
// containers. On success it returns the proof and the public inputs as
// decimal strings in circuit order.
func Prove(zkeyRd, wtnsRd io.ReaderAt, opts ...Option) (*Proof, []string, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	p, err := newProver(zkeyRd, wtnsRd, cfg)
	if err != nil {
		return nil, nil, err
	}

	log := logger.Logger().With().
		Str("curve", p.e.Name()).
		Uint64("n", p.pk.N).
		Uint32("nbConstraints", p.pk.NConstraints).
		Str("backend", Protocol).Logger()
	start := time.Now()

	if err := p.prove(); err != nil {
		return nil, nil, err
	}

	publics := make([]string, p.pk.NPublic)
	for i := range publics {
		publics[i] = scalarString(p.e, p.bufA[i])
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")
	return p.proof, publics, nil
}

// newProver validates the proving key and witness against each other and
// assembles the working state.
func newProver(zkeyRd, wtnsRd io.ReaderAt, cfg Config) (*prover, error) {
	pk, err := zkey.Read(zkeyRd)
	if err != nil {
		return nil, err
	}
	e, err := curve.ForPrime(pk.Q)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	if pk.R.Cmp(e.ScalarModulus()) != 0 {
		return nil, fmt.Errorf("%w: scalar field does not match curve %s", ErrInvalidProvingKey, e.Name())
	}

	w, err := witness.Read(wtnsRd)
	if err != nil {
		return nil, err
	}
	if w.Prime.Cmp(pk.R) != 0 {
		return nil, fmt.Errorf("%w: field prime", ErrWitnessMismatch)
	}
	if uint32(w.Len()) != pk.NVars-pk.NAdditions {
		return nil, fmt.Errorf("%w: %d values, want %d", ErrWitnessMismatch, w.Len(), pk.NVars-pk.NAdditions)
	}

	domain, err := fft.NewDomain(e, pk.Power)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	wit, err := w.Scalars(e)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWitnessMismatch, err)
	}

	return &prover{
		e:      e,
		pk:     pk,
		cfg:    cfg,
		domain: domain,
		tr:     fiatshamir.NewTranscript(e),
		wit:    wit,
		proof:  &Proof{e: e},
	}, nil
}

// prove runs the rounds in protocol order. Any error is fatal.
func (p *prover) prove() error {
	for _, step := range []func() error{
		p.preflight,
		p.round1,
		p.round2,
		p.round3,
		p.round4,
		p.round5,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// getWitness resolves a signal id against the witness file and the internal
// additions buffer; out-of-range ids read as zero.
func (p *prover) getWitness(id uint32) curve.Scalar {
	nw := p.pk.NVars - p.pk.NAdditions
	switch {
	case id < nw:
		return p.wit[id]
	case id < p.pk.NVars:
		return p.internal[id-nw]
	default:
		return curve.Scalar{}
	}
}

// preflight resolves the additions section and assembles the two wire
// buffers over the circuit domain.
func (p *prover) preflight() error {
	adds, err := p.pk.ReadAdditions()
	if err != nil {
		return err
	}
	p.internal = make([]curve.Scalar, p.pk.NAdditions)
	for i, a := range adds {
		t1 := p.e.Mul(a.Factor1, p.getWitness(a.Signal1))
		t2 := p.e.Mul(a.Factor2, p.getWitness(a.Signal2))
		p.internal[i] = p.e.Add(t1, t2)
	}

	// signal 0 is unused by the protocol
	if len(p.wit) > 0 {
		p.wit[0] = curve.Scalar{}
	}

	aMap, err := p.pk.ReadMap(zkey.SectionAMap)
	if err != nil {
		return err
	}
	bMap, err := p.pk.ReadMap(zkey.SectionBMap)
	if err != nil {
		return err
	}
	kCorr, err := p.pk.ReadScalars(zkey.SectionK, uint64(p.pk.NConstraints))
	if err != nil {
		return err
	}

	n := int(p.pk.N)
	p.bufA = make([]curve.Scalar, n)
	p.bufB = make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		var a, b curve.Scalar
		if i < len(aMap) {
			a = p.getWitness(aMap[i])
		}
		if i < len(bMap) {
			b = p.getWitness(bMap[i])
		}
		if i%2 == 1 {
			b = p.e.Neg(b)
		}
		if i < len(kCorr) {
			b = p.e.Add(b, kCorr[i])
		}
		p.bufA[i] = a
		p.bufB[i] = b
	}

	p.ptau, err = p.pk.ReadPTau(p.e)
	return err
}

func (p *prover) commit(pol *polynomial.Polynomial) (curve.G1, error) {
	return p.e.MultiExp(p.ptau, pol.Coefficients())
}

// round1 interpolates and blinds the wire polynomials and commits to them.
func (p *prover) round1() error {
	var err error
	if p.polA, err = polynomial.FromEvaluations(p.domain, p.e, p.bufA); err != nil {
		return err
	}
	if p.polB, err = polynomial.FromEvaluations(p.domain, p.e, p.bufB); err != nil {
		return err
	}

	// extended-domain evaluations are taken before blinding; the blinding
	// contributions are accounted for separately in round 3
	evA, err := p.domain.CosetNTT4n(p.polA.Coefficients())
	if err != nil {
		return err
	}
	evB, err := p.domain.CosetNTT4n(p.polB.Coefficients())
	if err != nil {
		return err
	}
	p.evalA = polynomial.NewEvaluations(evA)
	p.evalB = polynomial.NewEvaluations(evB)

	for i := 1; i <= 8; i++ {
		if p.ch.b[i], err = p.e.Random(p.cfg.BlindingSource); err != nil {
			return err
		}
	}
	p.polA.Blind(p.ch.b[1:3])
	p.polB.Blind(p.ch.b[3:5])

	var g errgroup.Group
	g.Go(func() error {
		var err error
		p.proof.A, err = p.commit(p.polA)
		return err
	})
	g.Go(func() error {
		var err error
		p.proof.B, err = p.commit(p.polB)
		return err
	})
	return g.Wait()
}

// round2 derives beta and gamma and builds the permutation accumulator Z.
func (p *prover) round2() error {
	e := p.e
	for j := uint32(0); j < p.pk.NPublic; j++ {
		p.tr.AbsorbScalar(p.bufA[j])
	}
	if err := p.tr.AbsorbPoint(p.proof.A); err != nil {
		return err
	}
	if err := p.tr.AbsorbPoint(p.proof.B); err != nil {
		return err
	}
	p.ch.beta = p.tr.Squeeze()
	p.tr.Reset()
	p.tr.AbsorbScalar(p.ch.beta)
	p.ch.gamma = p.tr.Squeeze()

	s1Coefs, s2Coefs, sigEvals, err := p.pk.ReadSigma()
	if err != nil {
		return err
	}
	p.polS1 = polynomial.FromScalars(e, s1Coefs)
	p.s2Coefs = s2Coefs
	p.sigma = polynomial.NewEvaluations(sigEvals)

	// sigma on the subgroup itself, recovered from the coefficient parts
	n := int(p.pk.N)
	s1v := make([]curve.Scalar, n)
	copy(s1v, s1Coefs)
	if err := p.domain.NTT(s1v); err != nil {
		return err
	}
	s2v := make([]curve.Scalar, n)
	copy(s2v, s2Coefs)
	if err := p.domain.NTT(s2v); err != nil {
		return err
	}

	roots := p.domain.Roots()
	beta, gamma, k1 := p.ch.beta, p.ch.gamma, p.pk.K1
	num := make([]curve.Scalar, n)
	den := make([]curve.Scalar, n)
	parallel.Execute(n, func(start, end int) {
		for i := start; i < end; i++ {
			bw := e.Mul(beta, roots[i])
			f1 := e.Add(e.Add(p.bufA[i], bw), gamma)
			f2 := e.Add(e.Add(p.bufB[i], e.Mul(bw, k1)), gamma)
			num[i] = e.Mul(f1, f2)

			g1 := e.Add(e.Add(p.bufA[i], e.Mul(beta, s1v[i])), gamma)
			g2 := e.Add(e.Add(p.bufB[i], e.Mul(beta, s2v[i])), gamma)
			den[i] = e.Mul(g1, g2)
		}
	}, p.cfg.NbTasks)

	if err := e.BatchInverse(den); err != nil {
		return err
	}

	z := make([]curve.Scalar, n)
	z[0] = e.One()
	for i := 0; i < n; i++ {
		z[(i+1)%n] = e.Mul(z[i], e.Mul(num[i], den[i]))
	}
	if !e.Equal(z[0], e.One()) {
		return ErrCopyConstraintViolation
	}

	if p.polZ, err = polynomial.FromEvaluations(p.domain, e, z); err != nil {
		return err
	}
	evZ, err := p.domain.CosetNTT4n(p.polZ.Coefficients())
	if err != nil {
		return err
	}
	p.evalZ = polynomial.NewEvaluations(evZ)
	p.polZ.Blind(p.ch.b[5:8])

	p.proof.Z, err = p.commit(p.polZ)
	return err
}

// round3 evaluates the gate, permutation and boundary identities on the
// extended domain, divides by Z_H and commits to the split quotient.
func (p *prover) round3() error {
	e := p.e
	if err := p.tr.AbsorbPoint(p.proof.Z); err != nil {
		return err
	}
	p.ch.alpha = p.tr.Squeeze()
	p.ch.alpha2 = e.Square(p.ch.alpha)

	var evalQ1, evalQ2, lag []curve.Scalar
	var err error
	if p.q1Coefs, evalQ1, err = p.pk.ReadPoly4(zkey.SectionQ1); err != nil {
		return err
	}
	if p.q2Coefs, evalQ2, err = p.pk.ReadPoly4(zkey.SectionQ2); err != nil {
		return err
	}
	if lag, err = p.pk.ReadLagrange(); err != nil {
		return err
	}

	n := p.pk.N
	n4 := int(4 * n)
	d := p.domain

	// Z_H on the shifted domain has period 4: shift^n * i4^j - 1
	var zh, zh2 [4]curve.Scalar
	shiftN := e.Exp(d.Shift, n)
	i4 := e.Exp(d.Omega4, n)
	acc := shiftN
	for j := 0; j < 4; j++ {
		zh[j] = e.Sub(acc, e.One())
		zh2[j] = e.Square(zh[j])
		acc = e.Mul(acc, i4)
	}

	beta, gamma, alpha, alpha2, k1 := p.ch.beta, p.ch.gamma, p.ch.alpha, p.ch.alpha2, p.pk.K1
	b := p.ch.b
	nPublic := int(p.pk.NPublic)

	tEval := make([]curve.Scalar, n4)
	tzEval := make([]curve.Scalar, n4)

	parallel.Execute(n4, func(start, end int) {
		x := e.Mul(d.Shift, e.Exp(d.Omega4, uint64(start)))
		for i := start; i < end; i++ {
			i2 := (i + 4) % n4
			xw := e.Mul(x, d.Omega)

			a, bv := p.evalA.Get(i), p.evalB.Get(i)
			aW, bW := p.evalA.GetWrapped(i+4), p.evalB.GetWrapped(i+4)
			q1, q2 := evalQ1[i], evalQ2[i]
			q1W, q2W := evalQ1[i2], evalQ2[i2]
			z, zW := p.evalZ.Get(i), p.evalZ.GetWrapped(i+4)
			s1 := p.sigma.Get(i)
			s2 := p.sigma.Get(n4 + i)

			// gate identity, on even rows only
			var gate curve.Scalar
			if i%2 == 0 {
				gate = e.Mul(a, q1)
				gate = e.Add(gate, e.Mul(bv, q2))
				gate = e.Add(gate, e.Mul(e.Mul(a, bv), q1W))
				gate = e.Add(gate, e.Mul(e.Mul(a, aW), q2W))
				gate = e.Add(gate, bW)
			}

			// permutation identity
			bx := e.Mul(beta, x)
			f1 := e.Add(e.Add(a, bx), gamma)
			f2 := e.Add(e.Add(bv, e.Mul(bx, k1)), gamma)
			g1 := e.Add(e.Add(a, e.Mul(beta, s1)), gamma)
			g2 := e.Add(e.Add(bv, e.Mul(beta, s2)), gamma)
			perm := e.Sub(
				e.Mul(e.Mul(f1, f2), z),
				e.Mul(e.Mul(g1, g2), zW),
			)

			// boundary
			l1 := lag[uint64(n)+uint64(i)]
			bound := e.Mul(e.Sub(z, e.One()), l1)

			// public input correction
			pub := curve.Scalar{}
			for j := 0; j < nPublic; j++ {
				lj := lag[uint64(j)*5*n+n+uint64(i)]
				pub = e.Sub(pub, e.Mul(lj, p.bufA[j]))
			}

			t := e.Add(gate, e.Mul(alpha, perm))
			t = e.Add(t, e.Mul(alpha2, bound))
			tEval[i] = e.Add(t, pub)

			// perturbation of the same identities by the blinding terms of
			// a, b and z; the common Z_H factor is cancelled analytically.
			// Blind appends factors lowest degree first, so the blinding
			// polynomials are b1 + b2*X and b5 + b6*X + b7*X^2.
			zhv, zh2v := zh[i%4], zh2[i%4]
			ba := e.Add(b[1], e.Mul(b[2], x))
			bb := e.Add(b[3], e.Mul(b[4], x))
			baW := e.Add(b[1], e.Mul(b[2], xw))
			bbW := e.Add(b[3], e.Mul(b[4], xw))
			bz := e.Add(b[5], e.Mul(e.Add(b[6], e.Mul(b[7], x)), x))
			bzW := e.Add(b[5], e.Mul(e.Add(b[6], e.Mul(b[7], xw)), xw))

			var gateZ curve.Scalar
			if i%2 == 0 {
				gateZ = e.Mul(ba, q1)
				gateZ = e.Add(gateZ, e.Mul(bb, q2))
				t1 := e.Add(e.Add(e.Mul(a, bb), e.Mul(bv, ba)), e.Mul(e.Mul(ba, bb), zhv))
				gateZ = e.Add(gateZ, e.Mul(q1W, t1))
				t2 := e.Add(e.Add(e.Mul(a, baW), e.Mul(aW, ba)), e.Mul(e.Mul(ba, baW), zhv))
				gateZ = e.Add(gateZ, e.Mul(q2W, t2))
				gateZ = e.Add(gateZ, bbW)
			}

			permZ1 := e.Mul(e.Mul(bb, f1), z)
			permZ1 = e.Add(permZ1, e.Mul(e.Mul(ba, f2), z))
			permZ1 = e.Add(permZ1, e.Mul(e.Mul(e.Mul(ba, bb), zhv), z))
			permZ1 = e.Add(permZ1, e.Mul(e.Mul(bz, f1), f2))
			permZ1 = e.Add(permZ1, e.Mul(e.Mul(e.Mul(bz, bb), zhv), f1))
			permZ1 = e.Add(permZ1, e.Mul(e.Mul(e.Mul(bz, ba), zhv), f2))
			permZ1 = e.Add(permZ1, e.Mul(e.Mul(e.Mul(ba, bb), bz), zh2v))

			permZ2 := e.Mul(e.Mul(bb, g1), zW)
			permZ2 = e.Add(permZ2, e.Mul(e.Mul(ba, g2), zW))
			permZ2 = e.Add(permZ2, e.Mul(e.Mul(e.Mul(ba, bb), zhv), zW))
			permZ2 = e.Add(permZ2, e.Mul(e.Mul(bzW, g1), g2))
			permZ2 = e.Add(permZ2, e.Mul(e.Mul(e.Mul(bzW, bb), zhv), g1))
			permZ2 = e.Add(permZ2, e.Mul(e.Mul(e.Mul(bzW, ba), zhv), g2))
			permZ2 = e.Add(permZ2, e.Mul(e.Mul(e.Mul(ba, bb), bzW), zh2v))

			permZ := e.Sub(permZ1, permZ2)
			boundZ := e.Mul(bz, l1)

			tz := e.Add(gateZ, e.Mul(alpha, permZ))
			tzEval[i] = e.Add(tz, e.Mul(alpha2, boundZ))

			x = e.Mul(x, d.Omega4)
		}
	}, p.cfg.NbTasks)

	coefsT, err := d.CosetINTT4n(tEval)
	if err != nil {
		return err
	}
	p.polNum = polynomial.FromScalars(e, coefsT)
	p.polT = p.polNum.Clone()
	if err := p.polT.DivByZh(n); err != nil {
		return err
	}

	coefsTz, err := d.CosetINTT4n(tzEval)
	if err != nil {
		return err
	}
	// the quotient of the blinding terms is exact: their Z_H factor was
	// cancelled before interpolation, so they are folded in after DivByZh
	p.polTz = polynomial.FromScalars(e, coefsTz)
	if err := p.polT.Add(p.polTz, nil); err != nil {
		return err
	}

	parts, err := p.polT.Split(2, int(n)+1, []curve.Scalar{b[8]})
	if err != nil {
		return err
	}
	p.polTL, p.polTH = parts[0], parts[1]
	p.polTH.Truncate()

	var g errgroup.Group
	g.Go(func() error {
		var err error
		p.proof.TL, err = p.commit(p.polTL)
		return err
	})
	g.Go(func() error {
		var err error
		p.proof.TH, err = p.commit(p.polTH)
		return err
	})
	return g.Wait()
}

// round4 derives zeta and opens the wire, permutation and quotient
// polynomials.
func (p *prover) round4() error {
	if err := p.tr.AbsorbPoint(p.proof.TL); err != nil {
		return err
	}
	if err := p.tr.AbsorbPoint(p.proof.TH); err != nil {
		return err
	}
	p.ch.zeta = p.tr.Squeeze()
	p.ch.zetaOmega = p.e.Mul(p.ch.zeta, p.domain.Omega)

	p.proof.EvalA = p.polA.Evaluate(p.ch.zeta)
	p.proof.EvalB = p.polB.Evaluate(p.ch.zeta)
	p.proof.EvalS1 = p.polS1.Evaluate(p.ch.zeta)
	p.evalT = p.polT.Evaluate(p.ch.zeta)
	p.proof.EvalAW = p.polA.Evaluate(p.ch.zetaOmega)
	p.proof.EvalBW = p.polB.Evaluate(p.ch.zetaOmega)
	p.proof.EvalZW = p.polZ.Evaluate(p.ch.zetaOmega)
	return nil
}

// round5 builds the linearisation polynomial and the two opening quotients.
func (p *prover) round5() error {
	e := p.e
	proof := p.proof
	for _, s := range []curve.Scalar{
		proof.EvalA, proof.EvalB, proof.EvalS1,
		proof.EvalAW, proof.EvalBW, proof.EvalZW,
	} {
		p.tr.AbsorbScalar(s)
	}
	p.ch.v[0] = p.tr.Squeeze()
	for i := 1; i < 4; i++ {
		p.ch.v[i] = e.Mul(p.ch.v[i-1], p.ch.v[0])
	}
	p.tr.Reset()
	p.tr.AbsorbScalar(p.ch.v[0])
	p.ch.vp[0] = p.tr.Squeeze()
	p.ch.vp[1] = e.Square(p.ch.vp[0])

	n := p.pk.N
	beta, gamma, alpha, alpha2 := p.ch.beta, p.ch.gamma, p.ch.alpha, p.ch.alpha2
	zeta := p.ch.zeta

	// zeta^n by k squarings
	zetaN := zeta
	for i := 0; i < p.pk.Power; i++ {
		zetaN = e.Square(zetaN)
	}

	// L_1(zeta) = (zeta^n - 1) / (n * (zeta - 1))
	den := e.Mul(e.FromUint64(n), e.Sub(zeta, e.One()))
	l1Zeta, err := e.Div(e.Sub(zetaN, e.One()), den)
	if err != nil {
		return err
	}

	coefZ := e.Mul(
		e.Add(e.Add(proof.EvalA, e.Mul(beta, zeta)), gamma),
		e.Add(e.Add(proof.EvalB, e.Mul(e.Mul(beta, p.pk.K1), zeta)), gamma),
	)
	coefZ = e.Add(e.Mul(alpha, coefZ), e.Mul(alpha2, l1Zeta))

	coefS2 := e.Mul(e.Add(e.Add(proof.EvalA, e.Mul(beta, proof.EvalS1)), gamma), beta)
	coefS2 = e.Mul(e.Mul(coefS2, proof.EvalZW), alpha)

	ab := e.Mul(proof.EvalA, proof.EvalB)
	aaw := e.Mul(proof.EvalA, proof.EvalAW)

	zCoefs := p.polZ.Coefficients()
	rCoefs := make([]curve.Scalar, n+3)
	parallel.Execute(int(n)+3, func(start, end int) {
		for i := start; i < end; i++ {
			c := e.Mul(coefZ, zCoefs[i])
			if uint64(i) < n {
				if i%2 == 0 {
					next := (i + 1) % int(n)
					c = e.Add(c, e.Mul(proof.EvalA, p.q1Coefs[i]))
					c = e.Add(c, e.Mul(proof.EvalB, p.q2Coefs[i]))
					c = e.Add(c, e.Mul(ab, p.q1Coefs[next]))
					c = e.Add(c, e.Mul(aaw, p.q2Coefs[next]))
				}
				c = e.Sub(c, e.Mul(coefS2, p.s2Coefs[i]))
			}
			rCoefs[i] = c
		}
	}, p.cfg.NbTasks)
	p.polR = polynomial.FromScalars(e, rCoefs)
	proof.EvalR = p.polR.Evaluate(zeta)

	// W_zeta
	zetaN2 := e.Mul(e.Square(zeta), zetaN) // zeta^{n+2}, the fold offset of the quotient split
	maxLen := p.polTH.Length()
	for _, pol := range []*polynomial.Polynomial{p.polTL, p.polR, p.polA, p.polB, p.polS1} {
		if pol.Length() > maxLen {
			maxLen = pol.Length()
		}
	}
	wXi := polynomial.New(e, maxLen)
	if err := wXi.Add(p.polTL, nil); err != nil {
		return err
	}
	if err := wXi.Add(p.polTH, &zetaN2); err != nil {
		return err
	}
	if err := wXi.Add(p.polR, &p.ch.v[0]); err != nil {
		return err
	}
	if err := wXi.Add(p.polA, &p.ch.v[1]); err != nil {
		return err
	}
	if err := wXi.Add(p.polB, &p.ch.v[2]); err != nil {
		return err
	}
	if err := wXi.Add(p.polS1, &p.ch.v[3]); err != nil {
		return err
	}
	open := p.evalT
	open = e.Add(open, e.Mul(p.ch.v[0], proof.EvalR))
	open = e.Add(open, e.Mul(p.ch.v[1], proof.EvalA))
	open = e.Add(open, e.Mul(p.ch.v[2], proof.EvalB))
	open = e.Add(open, e.Mul(p.ch.v[3], proof.EvalS1))
	wXi.SubScalar(open)
	if err := wXi.DivByXMinus(zeta); err != nil {
		return err
	}
	wXi.Truncate()
	p.polWxi = wXi
	if proof.Wxi, err = p.commit(wXi); err != nil {
		return err
	}

	// W_{zeta*omega}
	maxLen = p.polZ.Length()
	if p.polA.Length() > maxLen {
		maxLen = p.polA.Length()
	}
	if p.polB.Length() > maxLen {
		maxLen = p.polB.Length()
	}
	wXiw := polynomial.New(e, maxLen)
	if err := wXiw.Add(p.polZ, nil); err != nil {
		return err
	}
	if err := wXiw.Add(p.polA, &p.ch.vp[0]); err != nil {
		return err
	}
	if err := wXiw.Add(p.polB, &p.ch.vp[1]); err != nil {
		return err
	}
	openW := proof.EvalZW
	openW = e.Add(openW, e.Mul(p.ch.vp[0], proof.EvalAW))
	openW = e.Add(openW, e.Mul(p.ch.vp[1], proof.EvalBW))
	wXiw.SubScalar(openW)
	if err := wXiw.DivByXMinus(p.ch.zetaOmega); err != nil {
		return err
	}
	wXiw.Truncate()
	p.polWxiw = wXiw
	proof.Wxiw, err = p.commit(wXiw)
	return err
}
