package command

import (
	"fmt"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/domain"
)

func (d *Dispatcher) addUser(rec Record) (Result, error) {
	bootstrap := d.stores.Users.Size() == 0
	if bootstrap {
		if err := requireAtLeast(rec, []byte{'u', 'p', 'n', 'm', 'g'}, []byte{'c'}); err != nil {
			return Result{}, err
		}
	} else {
		if err := requireExact(rec, 'c', 'u', 'p', 'n', 'm', 'g'); err != nil {
			return Result{}, err
		}
	}

	uid, _ := rec.Get('u')
	password, _ := rec.Get('p')
	name, _ := rec.Get('n')
	mail, _ := rec.Get('m')
	gStr, _ := rec.Get('g')
	privilege, err := parseInt("add_user", gStr)
	if err != nil {
		return Result{}, err
	}
	if privilege < domain.MinPrivilege || privilege > domain.MaxPrivilege {
		return Result{}, apperr.Arg("bad_privilege", "privilege %d out of range", privilege)
	}
	if err := domain.ValidateDisplayName(name); err != nil {
		return Result{}, apperr.Arg("bad_name", "%v", err)
	}

	if _, exists, err := d.stores.GetUser(uid); err != nil {
		return Result{}, err
	} else if exists {
		return Result{}, apperr.Duplicate("uid_exists", "user %s already exists", uid)
	}

	if bootstrap {
		privilege = domain.MaxPrivilege
	} else {
		creator, _ := rec.Get('c')
		creatorPriv, loggedIn := d.stores.Logged.Privilege(creator)
		if !loggedIn {
			return Result{}, apperr.Auth("not_logged_in", "creator %s is not logged in", creator)
		}
		if creatorPriv <= privilege {
			return Result{}, apperr.Auth("insufficient_privilege", "creator privilege %d does not exceed %d", creatorPriv, privilege)
		}
	}

	user := domain.User{Password: password, Name: name, Mail: mail, Privilege: privilege}
	if err := d.stores.Users.Insert(uid, user); err != nil {
		return Result{}, err
	}
	return ok0(), nil
}

func (d *Dispatcher) login(rec Record) (Result, error) {
	if err := requireExact(rec, 'u', 'p'); err != nil {
		return Result{}, err
	}
	uid, _ := rec.Get('u')
	password, _ := rec.Get('p')

	if _, loggedIn := d.stores.Logged.Privilege(uid); loggedIn {
		return Result{}, apperr.Auth("already_logged_in", "user %s is already logged in", uid)
	}
	user, ok, err := d.stores.GetUser(uid)
	if err != nil {
		return Result{}, err
	}
	if !ok || user.Password != password {
		return Result{}, apperr.Auth("bad_credentials", "login failed for %s", uid)
	}
	d.stores.Logged.Login(uid, user.Privilege)
	return ok0(), nil
}

func (d *Dispatcher) logout(rec Record) (Result, error) {
	if err := requireExact(rec, 'u'); err != nil {
		return Result{}, err
	}
	uid, _ := rec.Get('u')
	if !d.stores.Logged.Logout(uid) {
		return Result{}, apperr.Auth("not_logged_in", "user %s is not logged in", uid)
	}
	return ok0(), nil
}

// canView implements spec.md §9's query_profile privilege check: same
// uid is always self-query; cross-uid requires the caller's privilege
// to strictly exceed the target's.
func (d *Dispatcher) canView(caller, target string, targetPriv int) error {
	if caller == target {
		return nil
	}
	callerPriv, loggedIn := d.stores.Logged.Privilege(caller)
	if !loggedIn {
		return apperr.Auth("not_logged_in", "caller %s is not logged in", caller)
	}
	if callerPriv <= targetPriv {
		return apperr.Auth("insufficient_privilege", "caller privilege %d does not exceed target %d", callerPriv, targetPriv)
	}
	return nil
}

func (d *Dispatcher) queryProfile(rec Record) (Result, error) {
	if err := requireExact(rec, 'c', 'u'); err != nil {
		return Result{}, err
	}
	caller, _ := rec.Get('c')
	target, _ := rec.Get('u')

	if _, loggedIn := d.stores.Logged.Privilege(caller); !loggedIn {
		return Result{}, apperr.Auth("not_logged_in", "caller %s is not logged in", caller)
	}
	user, ok, err := d.stores.GetUser(target)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, apperr.NotFound("uid_not_found", "user %s does not exist", target)
	}
	if err := d.canView(caller, target, user.Privilege); err != nil {
		return Result{}, err
	}
	return single(fmt.Sprintf("%s %s %s %d", target, user.Name, user.Mail, user.Privilege)), nil
}

func (d *Dispatcher) modifyProfile(rec Record) (Result, error) {
	if err := requireAtLeast(rec, []byte{'c', 'u'}, []byte{'p', 'n', 'm', 'g'}); err != nil {
		return Result{}, err
	}
	if len(rec.Opts) < 3 {
		return Result{}, apperr.Arg("bad_arg_count", "modify_profile: at least one field to modify is required")
	}
	caller, _ := rec.Get('c')
	target, _ := rec.Get('u')

	if _, loggedIn := d.stores.Logged.Privilege(caller); !loggedIn {
		return Result{}, apperr.Auth("not_logged_in", "caller %s is not logged in", caller)
	}
	user, ok, err := d.stores.GetUser(target)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, apperr.NotFound("uid_not_found", "user %s does not exist", target)
	}
	if err := d.canView(caller, target, user.Privilege); err != nil {
		return Result{}, err
	}

	if p, present := rec.Get('p'); present {
		user.Password = p
	}
	if n, present := rec.Get('n'); present {
		if err := domain.ValidateDisplayName(n); err != nil {
			return Result{}, apperr.Arg("bad_name", "%v", err)
		}
		user.Name = n
	}
	if m, present := rec.Get('m'); present {
		user.Mail = m
	}
	if gStr, present := rec.Get('g'); present {
		g, err := parseInt("modify_profile", gStr)
		if err != nil {
			return Result{}, err
		}
		if g < domain.MinPrivilege || g > domain.MaxPrivilege {
			return Result{}, apperr.Arg("bad_privilege", "privilege %d out of range", g)
		}
		if caller != target {
			callerPriv, _ := d.stores.Logged.Privilege(caller)
			if callerPriv <= g {
				return Result{}, apperr.Auth("insufficient_privilege", "caller privilege %d does not exceed %d", callerPriv, g)
			}
		}
		user.Privilege = g
	}

	if err := d.stores.Users.Modify(target, user); err != nil {
		return Result{}, err
	}
	return single(fmt.Sprintf("%s %s %s %d", target, user.Name, user.Mail, user.Privilege)), nil
}
